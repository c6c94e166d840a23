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

// TweetService implémente ports.TweetService.
type TweetService struct {
	repo   ports.TweetRepository
	users  ports.UserDirectory
	broker ports.EventPublisher
	clock  clock.Clock
}

func NewTweetService(repo ports.TweetRepository, users ports.UserDirectory, broker ports.EventPublisher, clk clock.Clock) *TweetService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TweetService{repo: repo, users: users, broker: broker, clock: clk}
}

var _ ports.TweetService = (*TweetService)(nil)

func (s *TweetService) CreateTweet(ctx context.Context, userID, content string) (*domain.Tweet, error) {
	// 1. Format avant tout appel réseau
	if err := domain.ValidateContent("content", content); err != nil {
		return nil, err
	}

	// 2. L'auteur doit exister (users-service, via cache)
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	tweet, err := domain.NewTweet(userID, content, s.clock.NowUtc())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tweet); err != nil {
		return nil, fmt.Errorf("save tweet: %w", err)
	}

	if err := s.broker.PublishTweetCreated(ctx, tweet); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.created", "tweet_id", tweet.ID, "error", err)
	}
	return tweet, nil
}

func (s *TweetService) GetTweet(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	return loadVisible(ctx, s.repo, tweetID)
}

func (s *TweetService) ListUserTweets(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Tweet], error) {
	tweets, total, err := s.repo.ListByAuthor(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return paging.Page[*domain.Tweet]{}, fmt.Errorf("list tweets: %w", err)
	}
	return paging.NewPage(tweets, page, total), nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetID, userID, content string) (*domain.Tweet, error) {
	tweet, err := s.repo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := tweet.Edit(userID, content, s.clock.NowUtc()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tweet); err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, userID string) error {
	tweet, err := s.repo.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := tweet.SoftDelete(userID, s.clock.NowUtc()); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, tweet); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	if err := s.broker.PublishTweetDeleted(ctx, tweet); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.deleted", "tweet_id", tweet.ID, "error", err)
	}
	return nil
}

// --- HELPERS (partagés avec likes et retweets) ---

func loadVisible(ctx context.Context, repo ports.TweetRepository, tweetID string) (*domain.Tweet, error) {
	tweet, err := repo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.IsDeleted {
		return nil, apperr.NotFound("tweet", tweetID)
	}
	return tweet, nil
}

func ensureUser(ctx context.Context, users ports.UserDirectory, userID string) error {
	ok, err := users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user %s: %w", userID, err)
	}
	if !ok {
		return apperr.BusinessRule(domain.RuleUserNotFound, fmt.Sprintf("user %s does not exist or is inactive", userID))
	}
	return nil
}
