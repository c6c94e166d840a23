package eventbroker

import (
	"context"
	"time"

	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

const (
	StreamName     = "TWEETS"
	SubjectPattern = "tweets.>"

	SubjectTweetCreated     = "tweets.created"
	SubjectTweetDeleted     = "tweets.deleted"
	SubjectTweetLiked       = "tweets.liked"
	SubjectTweetUnliked     = "tweets.unliked"
	SubjectTweetRetweeted   = "tweets.retweeted"
	SubjectTweetUnretweeted = "tweets.unretweeted"
)

// TweetEvent : contrat implicite avec les consommateurs (feed, notifications).
type TweetEvent struct {
	TweetID   string    `json:"tweet_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EngagementEvent couvre likes et retweets.
type EngagementEvent struct {
	TweetID string    `json:"tweet_id"`
	UserID  string    `json:"user_id"`
	Comment *string   `json:"comment,omitempty"`
	At      time.Time `json:"at,omitzero"`
}

type TweetEvents struct {
	pub eventbus.Publisher
}

func NewTweetEvents(pub eventbus.Publisher) *TweetEvents {
	return &TweetEvents{pub: pub}
}

var _ ports.EventPublisher = (*TweetEvents)(nil)

func (e *TweetEvents) PublishTweetCreated(ctx context.Context, t *domain.Tweet) error {
	return e.pub.Publish(ctx, SubjectTweetCreated, TweetEvent{
		TweetID: t.ID, AuthorID: t.UserID, Content: t.Content, CreatedAt: t.CreatedAt,
	})
}

func (e *TweetEvents) PublishTweetDeleted(ctx context.Context, t *domain.Tweet) error {
	return e.pub.Publish(ctx, SubjectTweetDeleted, TweetEvent{
		TweetID: t.ID, AuthorID: t.UserID, CreatedAt: t.CreatedAt,
	})
}

func (e *TweetEvents) PublishTweetLiked(ctx context.Context, l *domain.Like) error {
	return e.pub.Publish(ctx, SubjectTweetLiked, EngagementEvent{TweetID: l.TweetID, UserID: l.UserID, At: l.CreatedAt})
}

func (e *TweetEvents) PublishTweetUnliked(ctx context.Context, tweetID, userID string) error {
	return e.pub.Publish(ctx, SubjectTweetUnliked, EngagementEvent{TweetID: tweetID, UserID: userID})
}

func (e *TweetEvents) PublishTweetRetweeted(ctx context.Context, rt *domain.Retweet) error {
	return e.pub.Publish(ctx, SubjectTweetRetweeted, EngagementEvent{
		TweetID: rt.TweetID, UserID: rt.UserID, Comment: rt.Comment, At: rt.CreatedAt,
	})
}

func (e *TweetEvents) PublishTweetUnretweeted(ctx context.Context, tweetID, userID string) error {
	return e.pub.Publish(ctx, SubjectTweetUnretweeted, EngagementEvent{TweetID: tweetID, UserID: userID})
}
