package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

// --- PERSISTANCE ---

// TweetRepository : FindByID retourne aussi les tweets supprimés, le service décide.
type TweetRepository interface {
	Save(ctx context.Context, tweet *domain.Tweet) error
	FindByID(ctx context.Context, tweetID string) (*domain.Tweet, error)
	Update(ctx context.Context, tweet *domain.Tweet) error
	ListByAuthor(ctx context.Context, userID string, limit, offset int) ([]*domain.Tweet, int64, error)
}

// LikeRepository : Create et Delete mettent à jour likes_count dans la même transaction.
type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	Delete(ctx context.Context, tweetID, userID string) error
	Exists(ctx context.Context, tweetID, userID string) (bool, error)
	ListByTweet(ctx context.Context, tweetID string, limit, offset int) ([]*domain.Like, int64, error)
}

// RetweetRepository : même contrat transactionnel sur retweets_count.
type RetweetRepository interface {
	Create(ctx context.Context, rt *domain.Retweet) error
	Delete(ctx context.Context, tweetID, userID string) error
	Exists(ctx context.Context, tweetID, userID string) (bool, error)
	ListByTweet(ctx context.Context, tweetID string, limit, offset int) ([]*domain.Retweet, int64, error)
}

// --- SERVICES EXTERNES ---

// UserDirectory vérifie l'existence d'un utilisateur actif (users-service, avec cache).
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// --- MESSAGERIE ---

type EventPublisher interface {
	PublishTweetCreated(ctx context.Context, tweet *domain.Tweet) error
	PublishTweetDeleted(ctx context.Context, tweet *domain.Tweet) error
	PublishTweetLiked(ctx context.Context, like *domain.Like) error
	PublishTweetUnliked(ctx context.Context, tweetID, userID string) error
	PublishTweetRetweeted(ctx context.Context, rt *domain.Retweet) error
	PublishTweetUnretweeted(ctx context.Context, tweetID, userID string) error
}
