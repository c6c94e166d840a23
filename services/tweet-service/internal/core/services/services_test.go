package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/services"
)

type fixture struct {
	store    *memStore
	clock    *clock.StubClock
	broker   *recordingBroker
	tweets   *services.TweetService
	likes    *services.LikeService
	retweets *services.RetweetService
}

func newFixture(users userSet) *fixture {
	f := &fixture{
		store:  newMemStore(),
		clock:  clock.NewStubClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		broker: &recordingBroker{},
	}
	tr, lr, rr := memTweets{f.store}, memLikes{f.store}, memRetweets{f.store}
	f.tweets = services.NewTweetService(tr, users, f.broker, f.clock)
	f.likes = services.NewLikeService(tr, lr, users, f.broker, f.clock)
	f.retweets = services.NewRetweetService(tr, rr, users, f.broker, f.clock)
	return f
}

func ruleOf(t *testing.T, err error) string {
	t.Helper()
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Field
}

func TestCreateTweet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true})

	tw, err := f.tweets.CreateTweet(ctx, "alice", "hello world")
	require.NoError(t, err)
	assert.Equal(t, f.clock.NowUtc(), tw.CreatedAt)
	assert.Equal(t, []string{"tweets.created"}, f.broker.subjects)

	_, err = f.tweets.CreateTweet(ctx, "ghost", "boo")
	assert.Equal(t, domain.RuleUserNotFound, ruleOf(t, err))

	_, err = f.tweets.CreateTweet(ctx, "alice", strings.Repeat("x", 281))
	typ, _ := apperr.TypeOf(err)
	assert.Equal(t, apperr.TypeFormat, typ)
}

func TestCreateTweetUsersServiceDown(t *testing.T) {
	f := newFixture(nil)
	_, err := f.tweets.CreateTweet(context.Background(), "alice", "hello")
	require.Error(t, err)
	_, isValidation := apperr.TypeOf(err)
	assert.False(t, isValidation)
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(userSet{"alice": true})
	f.broker.fail = true

	_, err := f.tweets.CreateTweet(context.Background(), "alice", "still saved")
	assert.NoError(t, err)
}

func TestListUserTweetsNewestFirstWithoutDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true})

	var ids []string
	for range 3 {
		tw, err := f.tweets.CreateTweet(ctx, "alice", "tweet")
		require.NoError(t, err)
		ids = append(ids, tw.ID)
		f.clock.Advance(time.Minute)
	}
	require.NoError(t, f.tweets.DeleteTweet(ctx, ids[1], "alice"))

	req, err := paging.New(0, 10)
	require.NoError(t, err)
	page, err := f.tweets.ListUserTweets(ctx, "alice", req)
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, ids[2], page.Content[0].ID)
	assert.Equal(t, ids[0], page.Content[1].ID)
	assert.Equal(t, int64(2), page.TotalElements)
}

func TestUpdateAndDeleteTweet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true, "bob": true})

	tw, err := f.tweets.CreateTweet(ctx, "alice", "v1")
	require.NoError(t, err)

	_, err = f.tweets.UpdateTweet(ctx, tw.ID, "bob", "v2")
	assert.Equal(t, domain.RuleTweetAccessDenied, ruleOf(t, err))

	f.clock.Advance(time.Hour)
	updated, err := f.tweets.UpdateTweet(ctx, tw.ID, "alice", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, f.tweets.DeleteTweet(ctx, tw.ID, "alice"))
	_, err = f.tweets.GetTweet(ctx, tw.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(f.tweets.DeleteTweet(ctx, tw.ID, "alice")))
	assert.Contains(t, f.broker.subjects, "tweets.deleted")
}

func TestLikeLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true, "bob": true})

	tw, err := f.tweets.CreateTweet(ctx, "alice", "like me")
	require.NoError(t, err)

	_, err = f.likes.LikeTweet(ctx, tw.ID, "alice")
	assert.Equal(t, domain.RuleSelfLike, ruleOf(t, err))

	_, err = f.likes.LikeTweet(ctx, tw.ID, "carol")
	assert.Equal(t, domain.RuleUserNotFound, ruleOf(t, err))

	like, err := f.likes.LikeTweet(ctx, tw.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", like.UserID)

	_, err = f.likes.LikeTweet(ctx, tw.ID, "bob")
	typ, _ := apperr.TypeOf(err)
	assert.Equal(t, apperr.TypeUniqueness, typ)

	got, err := f.tweets.GetTweet(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)

	req, _ := paging.New(0, 20)
	page, err := f.likes.ListLikes(ctx, tw.ID, req)
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)

	require.NoError(t, f.likes.UnlikeTweet(ctx, tw.ID, "bob"))
	assert.True(t, apperr.IsNotFound(f.likes.UnlikeTweet(ctx, tw.ID, "bob")))

	got, err = f.tweets.GetTweet(ctx, tw.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)
}

func TestLikeDeletedTweet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true, "bob": true})

	tw, err := f.tweets.CreateTweet(ctx, "alice", "soon gone")
	require.NoError(t, err)
	require.NoError(t, f.tweets.DeleteTweet(ctx, tw.ID, "alice"))

	_, err = f.likes.LikeTweet(ctx, tw.ID, "bob")
	assert.True(t, apperr.IsNotFound(err))
	_, err = f.retweets.Retweet(ctx, tw.ID, "bob", nil)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRetweetLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(userSet{"alice": true, "bob": true})

	tw, err := f.tweets.CreateTweet(ctx, "alice", "retweet me")
	require.NoError(t, err)

	_, err = f.retweets.Retweet(ctx, tw.ID, "alice", nil)
	assert.Equal(t, domain.RuleSelfRetweet, ruleOf(t, err))

	comment := "  "
	rt, err := f.retweets.Retweet(ctx, tw.ID, "bob", &comment)
	require.NoError(t, err)
	assert.Nil(t, rt.Comment)

	_, err = f.retweets.Retweet(ctx, tw.ID, "bob", nil)
	typ, _ := apperr.TypeOf(err)
	assert.Equal(t, apperr.TypeUniqueness, typ)

	got, _ := f.tweets.GetTweet(ctx, tw.ID)
	assert.Equal(t, int64(1), got.RetweetsCount)

	require.NoError(t, f.retweets.Unretweet(ctx, tw.ID, "bob"))
	got, _ = f.tweets.GetTweet(ctx, tw.ID)
	assert.Zero(t, got.RetweetsCount)
	assert.Contains(t, f.broker.subjects, "tweets.unretweeted")
}
