package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
)

// --- PERSISTANCE (DB) ---

// UserFilter est la traduction repository de ListUsersQuery.
type UserFilter struct {
	Login  string
	Email  string
	Status *domain.Status
	Role   *domain.Role
	Limit  int
	Offset int
}

// UserRepository retourne une *apperr.NotFoundError quand l'utilisateur n'existe pas
// et une erreur UNIQUENESS sur violation de contrainte.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, f UserFilter) ([]*domain.User, int64, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
}

// --- MESSAGERIE (BROKER) ---

// EventPublisher notifie les autres microservices (best effort).
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, user *domain.User) error
	PublishUserStatusChanged(ctx context.Context, user *domain.User) error
	PublishUserRoleChanged(ctx context.Context, user *domain.User) error
}

// --- SÉCURITÉ (CRYPTO) ---

// PasswordHasher abstrait l'algorithme de hachage (Argon2, Bcrypt).
// Aucune opération ne vérifie de mot de passe : seul le hachage est exposé.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
