package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

// Like : unique par (TweetID, UserID).
type Like struct {
	ID        string
	TweetID   string
	UserID    string
	CreatedAt time.Time
}

// Retweet : unique par (TweetID, UserID), commentaire optionnel.
type Retweet struct {
	ID        string
	TweetID   string
	UserID    string
	Comment   *string
	CreatedAt time.Time
}

func NewLike(tweet *Tweet, userID string, now time.Time) (*Like, error) {
	if err := tweet.ensureVisible(); err != nil {
		return nil, err
	}
	if tweet.UserID == userID {
		return nil, apperr.BusinessRule(RuleSelfLike, "users cannot like their own tweets")
	}
	return &Like{
		ID:        uuid.NewString(),
		TweetID:   tweet.ID,
		UserID:    userID,
		CreatedAt: now,
	}, nil
}

func NewRetweet(tweet *Tweet, userID string, comment *string, now time.Time) (*Retweet, error) {
	if err := tweet.ensureVisible(); err != nil {
		return nil, err
	}

	// Un commentaire vide est stocké comme NULL
	if comment != nil {
		if strings.TrimSpace(*comment) == "" {
			comment = nil
		} else if utf8.RuneCountInString(*comment) > MaxContentLength {
			return nil, apperr.Formatf("comment", "must be at most %d characters", MaxContentLength)
		}
	}

	if tweet.UserID == userID {
		return nil, apperr.BusinessRule(RuleSelfRetweet, "users cannot retweet their own tweets")
	}
	return &Retweet{
		ID:        uuid.NewString(),
		TweetID:   tweet.ID,
		UserID:    userID,
		Comment:   comment,
		CreatedAt: now,
	}, nil
}
