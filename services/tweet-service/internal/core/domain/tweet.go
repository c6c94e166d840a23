package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

const MaxContentLength = 280

// --- RÈGLES MÉTIER ---
const (
	RuleSelfLike          = "SELF_LIKE"
	RuleSelfRetweet       = "SELF_RETWEET"
	RuleTweetAccessDenied = "TWEET_ACCESS_DENIED"
	RuleUserNotFound      = "USER_NOT_FOUND"
)

type Tweet struct {
	ID            string
	UserID        string
	Content       string
	IsDeleted     bool // soft delete : jamais supprimé physiquement
	LikesCount    int64
	RetweetsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewTweet(userID, content string, now time.Time) (*Tweet, error) {
	if err := ValidateContent("content", content); err != nil {
		return nil, err
	}
	return &Tweet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit : seul l'auteur peut modifier un tweet non supprimé.
func (t *Tweet) Edit(actorID, content string, now time.Time) error {
	if err := t.ensureVisible(); err != nil {
		return err
	}
	if err := t.ensureAuthor(actorID, "only the author can edit this tweet"); err != nil {
		return err
	}
	if err := ValidateContent("content", content); err != nil {
		return err
	}
	t.Content = content
	t.UpdatedAt = now
	return nil
}

func (t *Tweet) SoftDelete(actorID string, now time.Time) error {
	if err := t.ensureVisible(); err != nil {
		return err
	}
	if err := t.ensureAuthor(actorID, "only the author can delete this tweet"); err != nil {
		return err
	}
	t.IsDeleted = true
	t.UpdatedAt = now
	return nil
}

func (t *Tweet) ensureVisible() error {
	if t.IsDeleted {
		return apperr.NotFound("tweet", t.ID)
	}
	return nil
}

func (t *Tweet) ensureAuthor(actorID, msg string) error {
	if t.UserID != actorID {
		return apperr.BusinessRule(RuleTweetAccessDenied, msg)
	}
	return nil
}

// ValidateContent : 1 à 280 caractères, pas uniquement des espaces.
func ValidateContent(field, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Format(field, "must not be blank")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return apperr.Formatf(field, "must be at most %d characters", MaxContentLength)
	}
	return nil
}
