package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

// memStore simule les trois tables et leurs compteurs.
type memStore struct {
	mu       sync.Mutex
	tweets   map[string]*domain.Tweet
	likes    map[[2]string]*domain.Like
	retweets map[[2]string]*domain.Retweet
}

func newMemStore() *memStore {
	return &memStore{
		tweets:   map[string]*domain.Tweet{},
		likes:    map[[2]string]*domain.Like{},
		retweets: map[[2]string]*domain.Retweet{},
	}
}

type memTweets struct{ s *memStore }

func (r memTweets) Save(_ context.Context, t *domain.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.tweets[t.ID] = &cp
	return nil
}

func (r memTweets) FindByID(_ context.Context, id string) (*domain.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, apperr.NotFound("tweet", id)
	}
	cp := *t
	return &cp, nil
}

func (r memTweets) Update(ctx context.Context, t *domain.Tweet) error {
	return r.Save(ctx, t)
}

func (r memTweets) ListByAuthor(_ context.Context, userID string, limit, offset int) ([]*domain.Tweet, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Tweet
	for _, t := range r.s.tweets {
		if t.UserID == userID && !t.IsDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, limit, offset), int64(len(out)), nil
}

type memLikes struct{ s *memStore }

func (r memLikes) Create(_ context.Context, l *domain.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{l.TweetID, l.UserID}
	if _, dup := r.s.likes[key]; dup {
		return apperr.Uniqueness("userId", "duplicate")
	}
	r.s.likes[key] = l
	r.s.tweets[l.TweetID].LikesCount++
	return nil
}

func (r memLikes) Delete(_ context.Context, tweetID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{tweetID, userID}
	if _, ok := r.s.likes[key]; !ok {
		return apperr.NotFound("like", tweetID+"/"+userID)
	}
	delete(r.s.likes, key)
	r.s.tweets[tweetID].LikesCount--
	return nil
}

func (r memLikes) Exists(_ context.Context, tweetID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.likes[[2]string{tweetID, userID}]
	return ok, nil
}

func (r memLikes) ListByTweet(_ context.Context, tweetID string, limit, offset int) ([]*domain.Like, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Like
	for k, l := range r.s.likes {
		if k[0] == tweetID {
			out = append(out, l)
		}
	}
	return window(out, limit, offset), int64(len(out)), nil
}

type memRetweets struct{ s *memStore }

func (r memRetweets) Create(_ context.Context, rt *domain.Retweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{rt.TweetID, rt.UserID}
	if _, dup := r.s.retweets[key]; dup {
		return apperr.Uniqueness("userId", "duplicate")
	}
	r.s.retweets[key] = rt
	r.s.tweets[rt.TweetID].RetweetsCount++
	return nil
}

func (r memRetweets) Delete(_ context.Context, tweetID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{tweetID, userID}
	if _, ok := r.s.retweets[key]; !ok {
		return apperr.NotFound("retweet", tweetID+"/"+userID)
	}
	delete(r.s.retweets, key)
	r.s.tweets[tweetID].RetweetsCount--
	return nil
}

func (r memRetweets) Exists(_ context.Context, tweetID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.retweets[[2]string{tweetID, userID}]
	return ok, nil
}

func (r memRetweets) ListByTweet(_ context.Context, tweetID string, limit, offset int) ([]*domain.Retweet, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Retweet
	for k, rt := range r.s.retweets {
		if k[0] == tweetID {
			out = append(out, rt)
		}
	}
	return window(out, limit, offset), int64(len(out)), nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// userSet : annuaire d'utilisateurs actifs.
type userSet map[string]bool

func (u userSet) Exists(_ context.Context, id string) (bool, error) {
	if u == nil {
		return false, errors.New("users-service unavailable")
	}
	return u[id], nil
}

// recordingBroker enregistre les sujets publiés et peut simuler une panne.
type recordingBroker struct {
	subjects []string
	fail     bool
}

func (b *recordingBroker) record(subject string) error {
	b.subjects = append(b.subjects, subject)
	if b.fail {
		return errors.New("nats down")
	}
	return nil
}

func (b *recordingBroker) PublishTweetCreated(context.Context, *domain.Tweet) error {
	return b.record("tweets.created")
}

func (b *recordingBroker) PublishTweetDeleted(context.Context, *domain.Tweet) error {
	return b.record("tweets.deleted")
}

func (b *recordingBroker) PublishTweetLiked(context.Context, *domain.Like) error {
	return b.record("tweets.liked")
}

func (b *recordingBroker) PublishTweetUnliked(context.Context, string, string) error {
	return b.record("tweets.unliked")
}

func (b *recordingBroker) PublishTweetRetweeted(context.Context, *domain.Retweet) error {
	return b.record("tweets.retweeted")
}

func (b *recordingBroker) PublishTweetUnretweeted(context.Context, string, string) error {
	return b.record("tweets.unretweeted")
}
