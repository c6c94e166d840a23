package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

// TweetService est le port Driving (API) du cycle de vie des tweets.
type TweetService interface {
	CreateTweet(ctx context.Context, userID, content string) (*domain.Tweet, error)
	GetTweet(ctx context.Context, tweetID string) (*domain.Tweet, error)
	ListUserTweets(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Tweet], error)
	UpdateTweet(ctx context.Context, tweetID, userID, content string) (*domain.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID, userID string) error
}

type LikeService interface {
	LikeTweet(ctx context.Context, tweetID, userID string) (*domain.Like, error)
	UnlikeTweet(ctx context.Context, tweetID, userID string) error
	ListLikes(ctx context.Context, tweetID string, page paging.Request) (paging.Page[*domain.Like], error)
}

type RetweetService interface {
	Retweet(ctx context.Context, tweetID, userID string, comment *string) (*domain.Retweet, error)
	Unretweet(ctx context.Context, tweetID, userID string) error
	ListRetweets(ctx context.Context, tweetID string, page paging.Request) (paging.Page[*domain.Retweet], error)
}
