package eventbroker

import (
	"context"
	"time"

	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
)

const (
	StreamName     = "FOLLOWS"
	SubjectPattern = "follows.>"

	SubjectFollowCreated = "follows.created"
	SubjectFollowDeleted = "follows.deleted"
)

type FollowEvent struct {
	FollowID    string    `json:"follow_id,omitempty"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

type FollowEvents struct {
	pub eventbus.Publisher
}

func NewFollowEvents(pub eventbus.Publisher) *FollowEvents {
	return &FollowEvents{pub: pub}
}

var _ ports.EventPublisher = (*FollowEvents)(nil)

func (e *FollowEvents) PublishFollowCreated(ctx context.Context, f *domain.Follow) error {
	return e.pub.Publish(ctx, SubjectFollowCreated, FollowEvent{
		FollowID: f.ID, FollowerID: f.FollowerID, FollowingID: f.FollowingID, CreatedAt: f.CreatedAt,
	})
}

func (e *FollowEvents) PublishFollowDeleted(ctx context.Context, followerID, followingID string) error {
	return e.pub.Publish(ctx, SubjectFollowDeleted, FollowEvent{FollowerID: followerID, FollowingID: followingID})
}
