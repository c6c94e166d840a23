package ports

import "context"

// NewUser porte les données générées pour users-service.
type NewUser struct {
	Login     string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type UsersGateway interface {
	// CreateUser retourne l'identifiant de l'utilisateur créé.
	CreateUser(ctx context.Context, u NewUser) (string, error)
}

type FollowsGateway interface {
	CreateFollow(ctx context.Context, followerID, followingID string) (string, error)
}

type TweetsGateway interface {
	CreateTweet(ctx context.Context, userID, content string) (string, error)
	DeleteTweet(ctx context.Context, tweetID, userID string) error
	LikeTweet(ctx context.Context, tweetID, userID string) (string, error)
	RetweetTweet(ctx context.Context, tweetID, userID string, comment *string) (string, error)
}
