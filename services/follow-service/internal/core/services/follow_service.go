package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
)

type FollowService struct {
	repo   ports.FollowRepository
	users  ports.UserDirectory
	broker ports.EventPublisher
	clock  clock.Clock
}

func NewFollowService(repo ports.FollowRepository, users ports.UserDirectory, broker ports.EventPublisher, clk clock.Clock) *FollowService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &FollowService{repo: repo, users: users, broker: broker, clock: clk}
}

var _ ports.FollowService = (*FollowService)(nil)

func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	// 1. Règles locales (self-follow) avant tout appel réseau
	follow, err := domain.NewFollow(followerID, followingID, s.clock.NowUtc())
	if err != nil {
		return nil, err
	}

	// 2. Les deux utilisateurs doivent exister
	for _, id := range []string{followerID, followingID} {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check user %s: %w", id, err)
		}
		if !ok {
			return nil, apperr.BusinessRule(domain.RuleUserNotFound, fmt.Sprintf("user %s does not exist or is inactive", id))
		}
	}

	// 3. Fail Fast sur le doublon (la contrainte du store reste la sécurité ultime)
	exists, err := s.repo.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("check follow: %w", err)
	}
	if exists {
		return nil, apperr.Uniqueness("followingId", "already following this user")
	}

	if err := s.repo.Create(ctx, follow); err != nil {
		return nil, err
	}

	if err := s.broker.PublishFollowCreated(ctx, follow); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "follows.created", "follow_id", follow.ID, "error", err)
	}
	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := s.repo.Delete(ctx, followerID, followingID); err != nil {
		return err
	}
	if err := s.broker.PublishFollowDeleted(ctx, followerID, followingID); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "follows.deleted", "follower_id", followerID, "error", err)
	}
	return nil
}

func (s *FollowService) ListFollowers(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Follow], error) {
	items, total, err := s.repo.ListFollowers(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return paging.Page[*domain.Follow]{}, fmt.Errorf("list followers: %w", err)
	}
	return paging.NewPage(items, page, total), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Follow], error) {
	items, total, err := s.repo.ListFollowing(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return paging.Page[*domain.Follow]{}, fmt.Errorf("list following: %w", err)
	}
	return paging.NewPage(items, page, total), nil
}

func (s *FollowService) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	followers, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	return &domain.Stats{UserID: userID, FollowersCount: followers, FollowingCount: following}, nil
}

func (s *FollowService) CheckRelation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	if actorID == targetID {
		return &domain.RelationStatus{}, nil
	}
	return s.repo.GetRelationStatus(ctx, actorID, targetID)
}
