package rest

import (
	"time"

	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
)

type FollowRequest struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

type FollowResponse struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StatsResponse struct {
	UserID         string `json:"userId"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
}

type RelationResponse struct {
	IsFollowing  bool `json:"isFollowing"`
	IsFollowedBy bool `json:"isFollowedBy"`
}

func toFollowResponse(f *domain.Follow) FollowResponse {
	return FollowResponse{ID: f.ID, FollowerID: f.FollowerID, FollowingID: f.FollowingID, CreatedAt: f.CreatedAt}
}
