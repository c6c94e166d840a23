package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

type CreateUserCmd struct {
	Login     string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string // vide = USER
}

// UpdateUserCmd remplace tout le profil (PUT). Password reste optionnel.
type UpdateUserCmd struct {
	ID        string
	Login     string
	Email     string
	FirstName string
	LastName  string
	Password  *string
}

// PatchUserCmd : pointeur nil = pas de changement.
type PatchUserCmd struct {
	ID        string
	Login     *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

type ListUsersQuery struct {
	Login  string // recherche partielle, insensible à la casse
	Email  string
	Status *domain.Status
	Role   *domain.Role
	Page   paging.Request
}

// --- PORT PRIMAIRE (Driving) ---

type UserService interface {
	CreateUser(ctx context.Context, cmd CreateUserCmd) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, q ListUsersQuery) (paging.Page[*domain.User], error)
	UpdateUser(ctx context.Context, cmd UpdateUserCmd) (*domain.User, error)
	PatchUser(ctx context.Context, cmd PatchUserCmd) (*domain.User, error)

	// Transitions protégées par la règle du dernier admin
	DeactivateUser(ctx context.Context, id string) (*domain.User, error)
	ActivateUser(ctx context.Context, id string) (*domain.User, error)
	ChangeRole(ctx context.Context, id string, role string) (*domain.User, error)

	// Exists est utilisé par les autres services (ACTIVE uniquement)
	Exists(ctx context.Context, id string) (bool, error)
}
