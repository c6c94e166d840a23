package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

type LikeService struct {
	tweets ports.TweetRepository
	likes  ports.LikeRepository
	users  ports.UserDirectory
	broker ports.EventPublisher
	clock  clock.Clock
}

func NewLikeService(
	tweets ports.TweetRepository,
	likes ports.LikeRepository,
	users ports.UserDirectory,
	broker ports.EventPublisher,
	clk clock.Clock,
) *LikeService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &LikeService{tweets: tweets, likes: likes, users: users, broker: broker, clock: clk}
}

var _ ports.LikeService = (*LikeService)(nil)

func (s *LikeService) LikeTweet(ctx context.Context, tweetID, userID string) (*domain.Like, error) {
	tweet, err := loadVisible(ctx, s.tweets, tweetID)
	if err != nil {
		return nil, err
	}

	like, err := domain.NewLike(tweet, userID, s.clock.NowUtc())
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	// Fail Fast, la contrainte UNIQUE (tweet_id, user_id) couvre la course
	exists, err := s.likes.Exists(ctx, tweetID, userID)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}
	if exists {
		return nil, apperr.Uniqueness("userId", "user has already liked this tweet")
	}

	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}

	if err := s.broker.PublishTweetLiked(ctx, like); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.liked", "tweet_id", tweetID, "error", err)
	}
	return like, nil
}

func (s *LikeService) UnlikeTweet(ctx context.Context, tweetID, userID string) error {
	if _, err := loadVisible(ctx, s.tweets, tweetID); err != nil {
		return err
	}
	if err := s.likes.Delete(ctx, tweetID, userID); err != nil {
		return err
	}

	if err := s.broker.PublishTweetUnliked(ctx, tweetID, userID); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.unliked", "tweet_id", tweetID, "error", err)
	}
	return nil
}

func (s *LikeService) ListLikes(ctx context.Context, tweetID string, page paging.Request) (paging.Page[*domain.Like], error) {
	if _, err := loadVisible(ctx, s.tweets, tweetID); err != nil {
		return paging.Page[*domain.Like]{}, err
	}
	likes, total, err := s.likes.ListByTweet(ctx, tweetID, page.Size, page.Offset())
	if err != nil {
		return paging.Page[*domain.Like]{}, fmt.Errorf("list likes: %w", err)
	}
	return paging.NewPage(likes, page, total), nil
}
