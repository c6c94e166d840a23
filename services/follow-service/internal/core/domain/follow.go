package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

const (
	RuleSelfFollow   = "SELF_FOLLOW"
	RuleUserNotFound = "USER_NOT_FOUND"
)

// Follow représente un lien dirigé (Follower -> Following), unique par paire.
type Follow struct {
	ID          string
	FollowerID  string
	FollowingID string
	CreatedAt   time.Time
}

func NewFollow(followerID, followingID string, now time.Time) (*Follow, error) {
	var fe apperr.FormatErrors
	if followerID == "" {
		fe.Add(apperr.Format("followerId", "is required"))
	}
	if followingID == "" {
		fe.Add(apperr.Format("followingId", "is required"))
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}
	if followerID == followingID {
		return nil, apperr.BusinessRule(RuleSelfFollow, "users cannot follow themselves")
	}
	return &Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   now,
	}, nil
}

// Stats : compteurs d'un utilisateur.
type Stats struct {
	UserID         string
	FollowersCount int64
	FollowingCount int64
}

// RelationStatus décrit le lien dans les deux sens entre deux utilisateurs.
type RelationStatus struct {
	IsFollowing  bool // Actor suit Target
	IsFollowedBy bool // Target suit Actor
}
