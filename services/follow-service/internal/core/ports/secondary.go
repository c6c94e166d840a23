package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
)

// FollowRepository est le port Driven, implémenté par Postgres et Neo4j.
type FollowRepository interface {
	// EnsureSchema crée tables, contraintes et index (Idempotent)
	EnsureSchema(ctx context.Context) error

	// Create retourne une erreur UNIQUENESS si la paire existe déjà.
	Create(ctx context.Context, f *domain.Follow) error
	// Delete retourne NotFound si la paire n'existe pas.
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
}

type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

type EventPublisher interface {
	PublishFollowCreated(ctx context.Context, f *domain.Follow) error
	PublishFollowDeleted(ctx context.Context, followerID, followingID string) error
}
