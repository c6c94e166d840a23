package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/ports"
)

// UserService implémente ports.UserService (Primary Port).
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	broker ports.EventPublisher
	clock  clock.Clock
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	broker ports.EventPublisher,
	clk clock.Clock,
) *UserService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &UserService{
		repo:   repo,
		hasher: hasher,
		broker: broker,
		clock:  clk,
	}
}

var _ ports.UserService = (*UserService)(nil)

// --- CRÉATION ---

func (s *UserService) CreateUser(ctx context.Context, cmd ports.CreateUserCmd) (*domain.User, error) {
	// 1. Validation de format (tout est collecté d'un coup)
	profile := domain.Profile{
		Login:     cmd.Login,
		Email:     cmd.Email,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
	}.Normalize()

	var fe apperr.FormatErrors
	fe.Add(profile.Validate())
	fe.Add(domain.ValidatePassword(cmd.Password))
	role := domain.RoleUser
	if cmd.Role != "" {
		r, err := domain.ParseRole(cmd.Role)
		fe.Add(err)
		role = r
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	// 2. Fail Fast : unicité (la contrainte UNIQUE de la DB reste la sécurité ultime)
	if err := s.checkUniqueness(ctx, "", profile); err != nil {
		return nil, err
	}

	// 3. Sécurité : Hachage du mot de passe
	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	// 4. Domaine
	user, err := domain.NewUser(profile, hash, role, s.clock.NowUtc())
	if err != nil {
		return nil, err
	}

	// 5. Persistance
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	// 6. Side effects (best effort)
	s.publish(ctx, "users.created", user, s.broker.PublishUserCreated)

	slog.InfoContext(ctx, "👤 User created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// --- LECTURE ---

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, q ports.ListUsersQuery) (paging.Page[*domain.User], error) {
	users, total, err := s.repo.List(ctx, ports.UserFilter{
		Login:  q.Login,
		Email:  q.Email,
		Status: q.Status,
		Role:   q.Role,
		Limit:  q.Page.Size,
		Offset: q.Page.Offset(),
	})
	if err != nil {
		return paging.Page[*domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return paging.NewPage(users, q.Page, total), nil
}

func (s *UserService) Exists(ctx context.Context, id string) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive(), nil
}

// --- MISE À JOUR ---

func (s *UserService) UpdateUser(ctx context.Context, cmd ports.UpdateUserCmd) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		Login:     cmd.Login,
		Email:     cmd.Email,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
	}
	return s.applyChanges(ctx, user, profile, cmd.Password)
}

func (s *UserService) PatchUser(ctx context.Context, cmd ports.PatchUserCmd) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	// On part du profil courant et on n'écrase que les champs fournis
	profile := user.Profile()
	if cmd.Login != nil {
		profile.Login = *cmd.Login
	}
	if cmd.Email != nil {
		profile.Email = *cmd.Email
	}
	if cmd.FirstName != nil {
		profile.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		profile.LastName = *cmd.LastName
	}
	return s.applyChanges(ctx, user, profile, cmd.Password)
}

func (s *UserService) applyChanges(ctx context.Context, user *domain.User, profile domain.Profile, password *string) (*domain.User, error) {
	profile = profile.Normalize()

	var fe apperr.FormatErrors
	fe.Add(profile.Validate())
	if password != nil {
		fe.Add(domain.ValidatePassword(*password))
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, user.ID, profile); err != nil {
		return nil, err
	}

	now := s.clock.NowUtc()
	if err := user.ApplyProfile(profile, now); err != nil {
		return nil, err
	}
	if password != nil {
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return nil, fmt.Errorf("hashing failed: %w", err)
		}
		user.SetPasswordHash(hash, now)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// --- TRANSITIONS (protection du dernier admin) ---

func (s *UserService) DeactivateUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return user, nil
	}

	if user.IsActiveAdmin() {
		if err := s.ensureAnotherActiveAdmin(ctx, domain.RuleLastAdminDeactivation, "cannot deactivate the last active administrator"); err != nil {
			return nil, err
		}
	}

	user.Deactivate(s.clock.NowUtc())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("deactivate user: %w", err)
	}

	s.publish(ctx, "users.status_changed", user, s.broker.PublishUserStatusChanged)
	return user, nil
}

func (s *UserService) ActivateUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive() {
		return user, nil
	}

	user.Activate(s.clock.NowUtc())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}

	s.publish(ctx, "users.status_changed", user, s.broker.PublishUserStatusChanged)
	return user, nil
}

func (s *UserService) ChangeRole(ctx context.Context, id string, rawRole string) (*domain.User, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if user.IsActiveAdmin() && role != domain.RoleAdmin {
		if err := s.ensureAnotherActiveAdmin(ctx, domain.RuleLastAdminRoleChange, "cannot change the role of the last active administrator"); err != nil {
			return nil, err
		}
	}

	user.ChangeRole(role, s.clock.NowUtc())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	s.publish(ctx, "users.role_changed", user, s.broker.PublishUserRoleChanged)
	return user, nil
}

// --- HELPERS ---

func (s *UserService) ensureAnotherActiveAdmin(ctx context.Context, rule, msg string) error {
	n, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if n <= 1 {
		return apperr.BusinessRule(rule, msg)
	}
	return nil
}

// checkUniqueness vérifie login et email, en ignorant l'utilisateur selfID.
func (s *UserService) checkUniqueness(ctx context.Context, selfID string, p domain.Profile) error {
	existing, err := s.repo.GetByLogin(ctx, p.Login)
	switch {
	case err == nil && existing.ID != selfID:
		return apperr.Uniqueness("login", fmt.Sprintf("login %q is already taken", p.Login))
	case err != nil && !apperr.IsNotFound(err):
		return fmt.Errorf("check login: %w", err)
	}

	existing, err = s.repo.GetByEmail(ctx, p.Email)
	switch {
	case err == nil && existing.ID != selfID:
		return apperr.Uniqueness("email", fmt.Sprintf("email %q is already registered", p.Email))
	case err != nil && !apperr.IsNotFound(err):
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, subject string, user *domain.User, fn func(context.Context, *domain.User) error) {
	// On ne bloque pas le retour utilisateur si le broker est lent/down
	if err := fn(ctx, user); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", subject, "user_id", user.ID, "error", err)
	}
}
