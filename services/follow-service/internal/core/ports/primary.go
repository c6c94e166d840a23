package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
)

// FollowService est le port Driving (API)
type FollowService interface {
	Follow(ctx context.Context, followerID, followingID string) (*domain.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	ListFollowers(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Follow], error)
	ListFollowing(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Follow], error)
	Stats(ctx context.Context, userID string) (*domain.Stats, error)
	CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
}
