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

type RetweetService struct {
	tweets   ports.TweetRepository
	retweets ports.RetweetRepository
	users    ports.UserDirectory
	broker   ports.EventPublisher
	clock    clock.Clock
}

func NewRetweetService(
	tweets ports.TweetRepository,
	retweets ports.RetweetRepository,
	users ports.UserDirectory,
	broker ports.EventPublisher,
	clk clock.Clock,
) *RetweetService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &RetweetService{tweets: tweets, retweets: retweets, users: users, broker: broker, clock: clk}
}

var _ ports.RetweetService = (*RetweetService)(nil)

func (s *RetweetService) Retweet(ctx context.Context, tweetID, userID string, comment *string) (*domain.Retweet, error) {
	tweet, err := loadVisible(ctx, s.tweets, tweetID)
	if err != nil {
		return nil, err
	}

	rt, err := domain.NewRetweet(tweet, userID, comment, s.clock.NowUtc())
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	exists, err := s.retweets.Exists(ctx, tweetID, userID)
	if err != nil {
		return nil, fmt.Errorf("check retweet: %w", err)
	}
	if exists {
		return nil, apperr.Uniqueness("userId", "user has already retweeted this tweet")
	}

	if err := s.retweets.Create(ctx, rt); err != nil {
		return nil, err
	}

	if err := s.broker.PublishTweetRetweeted(ctx, rt); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.retweeted", "tweet_id", tweetID, "error", err)
	}
	return rt, nil
}

func (s *RetweetService) Unretweet(ctx context.Context, tweetID, userID string) error {
	if _, err := loadVisible(ctx, s.tweets, tweetID); err != nil {
		return err
	}
	if err := s.retweets.Delete(ctx, tweetID, userID); err != nil {
		return err
	}

	if err := s.broker.PublishTweetUnretweeted(ctx, tweetID, userID); err != nil {
		slog.WarnContext(ctx, "event publish failed", "subject", "tweets.unretweeted", "tweet_id", tweetID, "error", err)
	}
	return nil
}

func (s *RetweetService) ListRetweets(ctx context.Context, tweetID string, page paging.Request) (paging.Page[*domain.Retweet], error) {
	if _, err := loadVisible(ctx, s.tweets, tweetID); err != nil {
		return paging.Page[*domain.Retweet]{}, err
	}
	rts, total, err := s.retweets.ListByTweet(ctx, tweetID, page.Size, page.Offset())
	if err != nil {
		return paging.Page[*domain.Retweet]{}, fmt.Errorf("list retweets: %w", err)
	}
	return paging.NewPage(rts, page, total), nil
}
