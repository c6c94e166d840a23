package eventbroker

import (
	"context"
	"time"

	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
)

const (
	StreamName     = "USERS"
	SubjectPattern = "users.>" // Tous les events users.*

	SubjectUserCreated       = "users.created"
	SubjectUserStatusChanged = "users.status_changed"
	SubjectUserRoleChanged   = "users.role_changed"
)

// UserEvent est le payload commun des événements utilisateur.
type UserEvent struct {
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserEvents struct {
	pub eventbus.Publisher
}

func NewUserEvents(pub eventbus.Publisher) *UserEvents {
	return &UserEvents{pub: pub}
}

func (e *UserEvents) PublishUserCreated(ctx context.Context, user *domain.User) error {
	return e.pub.Publish(ctx, SubjectUserCreated, toEvent(user))
}

func (e *UserEvents) PublishUserStatusChanged(ctx context.Context, user *domain.User) error {
	return e.pub.Publish(ctx, SubjectUserStatusChanged, toEvent(user))
}

func (e *UserEvents) PublishUserRoleChanged(ctx context.Context, user *domain.User) error {
	return e.pub.Publish(ctx, SubjectUserRoleChanged, toEvent(user))
}

func toEvent(u *domain.User) UserEvent {
	return UserEvent{
		UserID:    u.ID,
		Login:     u.Login,
		Status:    string(u.Status),
		Role:      string(u.Role),
		UpdatedAt: u.UpdatedAt,
	}
}
