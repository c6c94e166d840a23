package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/ports"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/services"
)

// --- FAKES ---

type memRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]domain.User{}}
}

func (r *memRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Login == u.Login {
			return apperr.Uniqueness("login", "duplicate")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memRepo) find(pred func(domain.User) bool) (*domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if pred(u) {
			cp := u
			return &cp, true
		}
	}
	return nil, false
}

func (r *memRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.find(func(u domain.User) bool { return u.ID == id }); ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

func (r *memRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	if u, ok := r.find(func(u domain.User) bool { return u.Login == login }); ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", login)
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.find(func(u domain.User) bool { return u.Email == email }); ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", email)
}

func (r *memRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperr.NotFound("user", u.ID)
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.User
	for _, u := range r.users {
		if f.Login != "" && !strings.Contains(strings.ToLower(u.Login), strings.ToLower(f.Login)) {
			continue
		}
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Status != nil && u.Status != *f.Status {
			continue
		}
		cp := u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Login < all[j].Login })
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := min(f.Offset+f.Limit, len(all))
	return all[f.Offset:end], total, nil
}

func (r *memRepo) CountActiveAdmins(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.IsActiveAdmin() {
			n++
		}
	}
	return n, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

type recordingBroker struct {
	events []string
	fail   bool
}

func (b *recordingBroker) record(kind string, u *domain.User) error {
	b.events = append(b.events, kind+":"+u.ID)
	if b.fail {
		return errors.New("broker down")
	}
	return nil
}

func (b *recordingBroker) PublishUserCreated(_ context.Context, u *domain.User) error {
	return b.record("created", u)
}

func (b *recordingBroker) PublishUserStatusChanged(_ context.Context, u *domain.User) error {
	return b.record("status", u)
}

func (b *recordingBroker) PublishUserRoleChanged(_ context.Context, u *domain.User) error {
	return b.record("role", u)
}

// --- HELPERS ---

type env struct {
	svc    *services.UserService
	repo   *memRepo
	broker *recordingBroker
	clock  *clock.StubClock
}

func newEnv() *env {
	e := &env{
		repo:   newMemRepo(),
		broker: &recordingBroker{},
		clock:  clock.NewStubClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	e.svc = services.NewUserService(e.repo, plainHasher{}, e.broker, e.clock)
	return e
}

func createCmd(login, role string) ports.CreateUserCmd {
	return ports.CreateUserCmd{
		Login:     login,
		Email:     login + "@example.com",
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  "s3cretpass",
		Role:      role,
	}
}

func (e *env) mustCreate(t *testing.T, login, role string) *domain.User {
	t.Helper()
	u, err := e.svc.CreateUser(context.Background(), createCmd(login, role))
	require.NoError(t, err)
	return u
}

func requireType(t *testing.T, err error, want apperr.ValidationType) *apperr.ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	require.Equal(t, want, ve.Type)
	return ve
}

// --- TESTS ---

func TestCreateUser(t *testing.T) {
	e := newEnv()
	u := e.mustCreate(t, "alice", "")

	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, domain.StatusActive, u.Status)
	assert.Equal(t, "hashed:s3cretpass", u.PasswordHash)
	assert.Equal(t, e.clock.NowUtc(), u.CreatedAt)
	assert.Equal(t, []string{"created:" + u.ID}, e.broker.events)
}

func TestCreateUserFormatErrors(t *testing.T) {
	e := newEnv()
	cmd := createCmd("bob", "superuser")
	cmd.Password = "short"

	_, err := e.svc.CreateUser(context.Background(), cmd)
	requireType(t, err, apperr.TypeFormat)

	var fe apperr.FormatErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 2)
	assert.Empty(t, e.repo.users)
}

func TestCreateUserUniqueness(t *testing.T) {
	e := newEnv()
	e.mustCreate(t, "carol", "")

	_, err := e.svc.CreateUser(context.Background(), createCmd("carol", ""))
	ve := requireType(t, err, apperr.TypeUniqueness)
	assert.Equal(t, "login", ve.Field)

	cmd := createCmd("carol2", "")
	cmd.Email = "carol@example.com"
	_, err = e.svc.CreateUser(context.Background(), cmd)
	ve = requireType(t, err, apperr.TypeUniqueness)
	assert.Equal(t, "email", ve.Field)
}

func TestBrokerFailureDoesNotFailCreate(t *testing.T) {
	e := newEnv()
	e.broker.fail = true

	_, err := e.svc.CreateUser(context.Background(), createCmd("dave", ""))
	require.NoError(t, err)
	assert.Len(t, e.broker.events, 1)
}

func TestUpdateUserKeepsOwnLoginAvailable(t *testing.T) {
	e := newEnv()
	u := e.mustCreate(t, "erin", "")
	e.mustCreate(t, "frank", "")
	e.clock.Advance(time.Minute)

	updated, err := e.svc.UpdateUser(context.Background(), ports.UpdateUserCmd{
		ID: u.ID, Login: "erin", Email: "erin@new.io", FirstName: "Erin", LastName: "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "erin@new.io", updated.Email)
	assert.Equal(t, e.clock.NowUtc(), updated.UpdatedAt)

	_, err = e.svc.UpdateUser(context.Background(), ports.UpdateUserCmd{
		ID: u.ID, Login: "frank", Email: "erin@new.io", FirstName: "Erin", LastName: "Smith",
	})
	requireType(t, err, apperr.TypeUniqueness)
}

func TestPatchUserOnlyTouchesGivenFields(t *testing.T) {
	e := newEnv()
	u := e.mustCreate(t, "gina", "")
	newName := "Georgina"
	newPass := "an0therpass"

	patched, err := e.svc.PatchUser(context.Background(), ports.PatchUserCmd{ID: u.ID, FirstName: &newName, Password: &newPass})
	require.NoError(t, err)
	assert.Equal(t, "Georgina", patched.FirstName)
	assert.Equal(t, u.LastName, patched.LastName)
	assert.Equal(t, u.Email, patched.Email)
	assert.Equal(t, "hashed:an0therpass", patched.PasswordHash)

	bad := "x"
	_, err = e.svc.PatchUser(context.Background(), ports.PatchUserCmd{ID: u.ID, Login: &bad})
	requireType(t, err, apperr.TypeFormat)
}

func TestGetUserNotFound(t *testing.T) {
	e := newEnv()
	_, err := e.svc.GetUser(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeactivateLastAdminIsRejected(t *testing.T) {
	e := newEnv()
	admin := e.mustCreate(t, "root_admin", "ADMIN")

	_, err := e.svc.DeactivateUser(context.Background(), admin.ID)
	ve := requireType(t, err, apperr.TypeBusinessRule)
	assert.Equal(t, domain.RuleLastAdminDeactivation, ve.Field)

	// Avec un second admin actif, la désactivation passe
	e.mustCreate(t, "backup_admin", "ADMIN")
	u, err := e.svc.DeactivateUser(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, u.Status)
	assert.Contains(t, e.broker.events, "status:"+admin.ID)
}

func TestDemoteLastAdminIsRejected(t *testing.T) {
	e := newEnv()
	admin := e.mustCreate(t, "only_admin", "ADMIN")

	_, err := e.svc.ChangeRole(context.Background(), admin.ID, "USER")
	ve := requireType(t, err, apperr.TypeBusinessRule)
	assert.Equal(t, domain.RuleLastAdminRoleChange, ve.Field)

	// Un admin inactif ne compte pas
	other := e.mustCreate(t, "other_admin", "ADMIN")
	e.mustCreate(t, "third_admin", "ADMIN")
	_, err = e.svc.DeactivateUser(context.Background(), other.ID)
	require.NoError(t, err)

	u, err := e.svc.ChangeRole(context.Background(), admin.ID, "user")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
}

func TestChangeRoleInvalid(t *testing.T) {
	e := newEnv()
	u := e.mustCreate(t, "henry", "")

	_, err := e.svc.ChangeRole(context.Background(), u.ID, "GOD")
	requireType(t, err, apperr.TypeFormat)

	promoted, err := e.svc.ChangeRole(context.Background(), u.ID, "ADMIN")
	require.NoError(t, err)
	assert.True(t, promoted.IsActiveAdmin())
}

func TestActivateAndExists(t *testing.T) {
	e := newEnv()
	u := e.mustCreate(t, "ivan", "")
	ctx := context.Background()

	ok, err := e.svc.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.svc.DeactivateUser(ctx, u.ID)
	require.NoError(t, err)
	ok, err = e.svc.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.svc.ActivateUser(ctx, u.ID)
	require.NoError(t, err)
	ok, err = e.svc.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.svc.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListUsersFilters(t *testing.T) {
	e := newEnv()
	e.mustCreate(t, "jack", "")
	e.mustCreate(t, "jill", "ADMIN")
	e.mustCreate(t, "kate", "")

	req, err := paging.New(0, 10)
	require.NoError(t, err)

	page, err := e.svc.ListUsers(context.Background(), ports.ListUsersQuery{Login: "j", Page: req})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)

	admin := domain.RoleAdmin
	page, err = e.svc.ListUsers(context.Background(), ports.ListUsersQuery{Role: &admin, Page: req})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "jill", page.Content[0].Login)
}
