package rest

import (
	"time"

	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

type TweetRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

// ActorRequest : body des opérations qui n'ont besoin que de l'acteur.
type ActorRequest struct {
	UserID string `json:"userId"`
}

type RetweetRequest struct {
	UserID  string  `json:"userId"`
	Comment *string `json:"comment,omitempty"`
}

type TweetResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Content       string    `json:"content"`
	LikesCount    int64     `json:"likesCount"`
	RetweetsCount int64     `json:"retweetsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type LikeResponse struct {
	ID        string    `json:"id"`
	TweetID   string    `json:"tweetId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type RetweetResponse struct {
	ID        string    `json:"id"`
	TweetID   string    `json:"tweetId"`
	UserID    string    `json:"userId"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTweetResponse(t *domain.Tweet) TweetResponse {
	return TweetResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Content:       t.Content,
		LikesCount:    t.LikesCount,
		RetweetsCount: t.RetweetsCount,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toLikeResponse(l *domain.Like) LikeResponse {
	return LikeResponse{ID: l.ID, TweetID: l.TweetID, UserID: l.UserID, CreatedAt: l.CreatedAt}
}

func toRetweetResponse(rt *domain.Retweet) RetweetResponse {
	return RetweetResponse{ID: rt.ID, TweetID: rt.TweetID, UserID: rt.UserID, Comment: rt.Comment, CreatedAt: rt.CreatedAt}
}
