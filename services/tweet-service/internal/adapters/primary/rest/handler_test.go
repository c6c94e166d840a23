package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/domain"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// stubService implémente les trois ports primaires.
type stubService struct {
	err      error
	tweet    *domain.Tweet
	calls    []string
	lastUser string
	lastPage paging.Request
	comment  *string
}

func (s *stubService) record(op, userID string) { s.calls = append(s.calls, op); s.lastUser = userID }

func (s *stubService) CreateTweet(_ context.Context, userID, content string) (*domain.Tweet, error) {
	s.record("create", userID)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Tweet{ID: uuid.NewString(), UserID: userID, Content: content, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *stubService) GetTweet(context.Context, string) (*domain.Tweet, error) {
	s.record("get", "")
	return s.tweet, s.err
}

func (s *stubService) ListUserTweets(_ context.Context, userID string, p paging.Request) (paging.Page[*domain.Tweet], error) {
	s.record("listByUser", userID)
	s.lastPage = p
	return paging.NewPage([]*domain.Tweet{s.tweet}, p, 1), s.err
}

func (s *stubService) UpdateTweet(_ context.Context, _, userID, _ string) (*domain.Tweet, error) {
	s.record("update", userID)
	return s.tweet, s.err
}

func (s *stubService) DeleteTweet(_ context.Context, _, userID string) error {
	s.record("delete", userID)
	return s.err
}

func (s *stubService) LikeTweet(_ context.Context, tweetID, userID string) (*domain.Like, error) {
	s.record("like", userID)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Like{ID: uuid.NewString(), TweetID: tweetID, UserID: userID, CreatedAt: now}, nil
}

func (s *stubService) UnlikeTweet(_ context.Context, _, userID string) error {
	s.record("unlike", userID)
	return s.err
}

func (s *stubService) ListLikes(_ context.Context, _ string, p paging.Request) (paging.Page[*domain.Like], error) {
	s.record("listLikes", "")
	return paging.NewPage([]*domain.Like{}, p, 0), s.err
}

func (s *stubService) Retweet(_ context.Context, tweetID, userID string, comment *string) (*domain.Retweet, error) {
	s.record("retweet", userID)
	s.comment = comment
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Retweet{ID: uuid.NewString(), TweetID: tweetID, UserID: userID, Comment: comment, CreatedAt: now}, nil
}

func (s *stubService) Unretweet(_ context.Context, _, userID string) error {
	s.record("unretweet", userID)
	return s.err
}

func (s *stubService) ListRetweets(_ context.Context, _ string, p paging.Request) (paging.Page[*domain.Retweet], error) {
	s.record("listRetweets", "")
	return paging.NewPage([]*domain.Retweet{}, p, 0), s.err
}

func do(t *testing.T, svc *stubService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	rest.NewHandler(svc, svc, svc).RegisterTo(mux)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func problem(t *testing.T, rec *httptest.ResponseRecorder) httpx.Problem {
	t.Helper()
	var p httpx.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestCreateTweet(t *testing.T) {
	svc := &stubService{}
	author := uuid.NewString()
	rec := do(t, svc, http.MethodPost, "/api/v1/tweets", `{"userId":"`+author+`","content":"hello"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp rest.TweetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, author, resp.UserID)
	assert.Equal(t, "/api/v1/tweets/"+resp.ID, rec.Header().Get("Location"))
}

func TestCreateTweetRejectsBadUserID(t *testing.T) {
	svc := &stubService{}
	rec := do(t, svc, http.MethodPost, "/api/v1/tweets", `{"userId":"nope","content":"hello"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FORMAT", problem(t, rec).ValidationType)
	assert.Empty(t, svc.calls)
}

func TestUpdateTweetAccessDenied(t *testing.T) {
	svc := &stubService{err: apperr.BusinessRule(domain.RuleTweetAccessDenied, "only the author can edit this tweet")}
	rec := do(t, svc, http.MethodPut, "/api/v1/tweets/"+uuid.NewString(), `{"userId":"`+uuid.NewString()+`","content":"x"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.RuleTweetAccessDenied, problem(t, rec).RuleName)
}

func TestSoftDelete(t *testing.T) {
	svc := &stubService{}
	actor := uuid.NewString()
	rec := do(t, svc, http.MethodPatch, "/api/v1/tweets/"+uuid.NewString()+"/delete", `{"userId":"`+actor+`"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"delete"}, svc.calls)
	assert.Equal(t, actor, svc.lastUser)
}

func TestGetDeletedTweetIsNotFound(t *testing.T) {
	id := uuid.NewString()
	rec := do(t, &stubService{err: apperr.NotFound("tweet", id)}, http.MethodGet, "/api/v1/tweets/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserTweets(t *testing.T) {
	svc := &stubService{tweet: &domain.Tweet{ID: uuid.NewString(), Content: "hi", CreatedAt: now, UpdatedAt: now}}
	user := uuid.NewString()
	rec := do(t, svc, http.MethodGet, "/api/v1/tweets/user/"+user+"?page=2&size=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, svc.lastUser)
	assert.Equal(t, 20, svc.lastPage.Offset())

	var page paging.Page[rest.TweetResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Content, 1)
}

func TestLikeAndUnlike(t *testing.T) {
	svc := &stubService{}
	tweet, fan := uuid.NewString(), uuid.NewString()

	rec := do(t, svc, http.MethodPost, "/api/v1/tweets/"+tweet+"/like", `{"userId":"`+fan+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var like rest.LikeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &like))
	assert.Equal(t, tweet, like.TweetID)

	rec = do(t, svc, http.MethodDelete, "/api/v1/tweets/"+tweet+"/like/"+fan, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, fan, svc.lastUser)
}

func TestSelfLikeIsConflict(t *testing.T) {
	svc := &stubService{err: apperr.BusinessRule(domain.RuleSelfLike, "users cannot like their own tweets")}
	rec := do(t, svc, http.MethodPost, "/api/v1/tweets/"+uuid.NewString()+"/like", `{"userId":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	p := problem(t, rec)
	assert.Equal(t, "BUSINESS_RULE", p.ValidationType)
	assert.Equal(t, domain.RuleSelfLike, p.RuleName)
}

func TestDuplicateRetweetIsConflict(t *testing.T) {
	svc := &stubService{err: apperr.Uniqueness("userId", "user has already retweeted this tweet")}
	rec := do(t, svc, http.MethodPost, "/api/v1/tweets/"+uuid.NewString()+"/retweet", `{"userId":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "UNIQUENESS", problem(t, rec).ValidationType)
}

func TestRetweetPassesComment(t *testing.T) {
	svc := &stubService{}
	rec := do(t, svc, http.MethodPost, "/api/v1/tweets/"+uuid.NewString()+"/retweet",
		`{"userId":"`+uuid.NewString()+`","comment":"must read"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.comment)
	assert.Equal(t, "must read", *svc.comment)
}

func TestEngagementCollections(t *testing.T) {
	svc := &stubService{}
	tweet := uuid.NewString()

	assert.Equal(t, http.StatusOK, do(t, svc, http.MethodGet, "/api/v1/tweets/"+tweet+"/likes", "").Code)
	assert.Equal(t, http.StatusOK, do(t, svc, http.MethodGet, "/api/v1/tweets/"+tweet+"/retweets", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, svc, http.MethodGet, "/api/v1/tweets/"+tweet+"/bookmarks", "").Code)
	assert.Equal(t, []string{"listLikes", "listRetweets"}, svc.calls)

	rec := do(t, svc, http.MethodDelete, "/api/v1/tweets/"+tweet+"/retweet/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
