package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/ports"
)

type createUserRequest struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type createFollowRequest struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

type tweetRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content,omitempty"`
}

type retweetRequest struct {
	UserID  string  `json:"userId"`
	Comment *string `json:"comment,omitempty"`
}

// --- USERS ---

type UsersGateway struct{ c *client }

var _ ports.UsersGateway = (*UsersGateway)(nil)

func NewUsersGateway(baseURL string, timeout time.Duration) *UsersGateway {
	return &UsersGateway{c: newClient("users-service", baseURL, timeout)}
}

func (g *UsersGateway) CreateUser(ctx context.Context, u ports.NewUser) (string, error) {
	return g.c.create(ctx, "/api/v1/users", createUserRequest(u))
}

// --- FOLLOWS ---

type FollowsGateway struct{ c *client }

var _ ports.FollowsGateway = (*FollowsGateway)(nil)

func NewFollowsGateway(baseURL string, timeout time.Duration) *FollowsGateway {
	return &FollowsGateway{c: newClient("follow-service", baseURL, timeout)}
}

func (g *FollowsGateway) CreateFollow(ctx context.Context, followerID, followingID string) (string, error) {
	return g.c.create(ctx, "/api/v1/follows", createFollowRequest{FollowerID: followerID, FollowingID: followingID})
}

// --- TWEETS ---

type TweetsGateway struct{ c *client }

var _ ports.TweetsGateway = (*TweetsGateway)(nil)

func NewTweetsGateway(baseURL string, timeout time.Duration) *TweetsGateway {
	return &TweetsGateway{c: newClient("tweet-service", baseURL, timeout)}
}

func (g *TweetsGateway) CreateTweet(ctx context.Context, userID, content string) (string, error) {
	return g.c.create(ctx, "/api/v1/tweets", tweetRequest{UserID: userID, Content: content})
}

func (g *TweetsGateway) DeleteTweet(ctx context.Context, tweetID, userID string) error {
	return g.c.do(ctx, http.MethodPatch, tweetPath(tweetID, "delete"), tweetRequest{UserID: userID}, nil)
}

func (g *TweetsGateway) LikeTweet(ctx context.Context, tweetID, userID string) (string, error) {
	return g.c.create(ctx, tweetPath(tweetID, "like"), tweetRequest{UserID: userID})
}

func (g *TweetsGateway) RetweetTweet(ctx context.Context, tweetID, userID string, comment *string) (string, error) {
	return g.c.create(ctx, tweetPath(tweetID, "retweet"), retweetRequest{UserID: userID, Comment: comment})
}

func tweetPath(tweetID, action string) string {
	return "/api/v1/tweets/" + url.PathEscape(tweetID) + "/" + action
}
