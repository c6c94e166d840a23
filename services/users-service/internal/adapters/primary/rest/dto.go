package rest

import (
	"time"

	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
)

type CreateUserRequest struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Login     string  `json:"login"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Password  *string `json:"password,omitempty"`
}

// PatchUserRequest : les champs absents ne sont pas modifiés.
type PatchUserRequest struct {
	Login     *string `json:"login,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ExistsResponse struct {
	UserID string `json:"userId"`
	Exists bool   `json:"exists"`
}

// toResponse ne renvoie jamais le hash du mot de passe.
func toResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    string(u.Status),
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
