package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

var now = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func ruleOf(t *testing.T, err error) string {
	t.Helper()
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	require.Equal(t, apperr.TypeBusinessRule, ve.Type)
	return ve.Field
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, domain.ValidateContent("content", "x"))
	assert.NoError(t, domain.ValidateContent("content", strings.Repeat("é", 280)))
	assert.Error(t, domain.ValidateContent("content", ""))
	assert.Error(t, domain.ValidateContent("content", "   \n\t"))
	assert.Error(t, domain.ValidateContent("content", strings.Repeat("a", 281)))
}

func TestEditAndDelete(t *testing.T) {
	tw, err := domain.NewTweet("author", "hello", now)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	assert.Equal(t, domain.RuleTweetAccessDenied, ruleOf(t, tw.Edit("intruder", "hacked", later)))
	require.NoError(t, tw.Edit("author", "hello world", later))
	assert.Equal(t, "hello world", tw.Content)
	assert.Equal(t, later, tw.UpdatedAt)

	assert.Equal(t, domain.RuleTweetAccessDenied, ruleOf(t, tw.SoftDelete("intruder", later)))
	require.NoError(t, tw.SoftDelete("author", later))
	assert.True(t, tw.IsDeleted)

	// Un tweet supprimé est invisible
	assert.True(t, apperr.IsNotFound(tw.Edit("author", "again", later)))
	assert.True(t, apperr.IsNotFound(tw.SoftDelete("author", later)))
}

func TestNewLike(t *testing.T) {
	tw, err := domain.NewTweet("author", "hello", now)
	require.NoError(t, err)

	_, err = domain.NewLike(tw, "author", now)
	assert.Equal(t, domain.RuleSelfLike, ruleOf(t, err))

	like, err := domain.NewLike(tw, "fan", now)
	require.NoError(t, err)
	assert.Equal(t, tw.ID, like.TweetID)

	tw.IsDeleted = true
	_, err = domain.NewLike(tw, "fan", now)
	assert.True(t, apperr.IsNotFound(err))
}

func TestNewRetweet(t *testing.T) {
	tw, err := domain.NewTweet("author", "hello", now)
	require.NoError(t, err)

	_, err = domain.NewRetweet(tw, "author", nil, now)
	assert.Equal(t, domain.RuleSelfRetweet, ruleOf(t, err))

	blank := "   "
	rt, err := domain.NewRetweet(tw, "fan", &blank, now)
	require.NoError(t, err)
	assert.Nil(t, rt.Comment)

	long := strings.Repeat("a", 281)
	_, err = domain.NewRetweet(tw, "fan", &long, now)
	typ, ok := apperr.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.TypeFormat, typ)

	comment := "so true"
	rt, err = domain.NewRetweet(tw, "fan", &comment, now)
	require.NoError(t, err)
	assert.Equal(t, "so true", *rt.Comment)
}
