package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/auth"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
)

// stubScripts valide la requête comme le vrai service puis renvoie un rapport fixe.
type stubScripts struct {
	lastBase domain.BaseScriptRequest
	lastGen  domain.GenerateRequest
}

func (s *stubScripts) RunBaseScript(_ context.Context, req domain.BaseScriptRequest) (*domain.BaseScriptReport, error) {
	s.lastBase = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &domain.BaseScriptReport{
		CreatedUserIDs: []string{"u1", "u2"},
		Statistics: domain.Statistics{
			TotalUsersCreated: 2,
			ErrorsCount:       1,
			Errors:            []string{"Failed to create user 3: boom"},
			ExecutionTimeMs:   12,
		},
	}, nil
}

func (s *stubScripts) GenerateUsersAndTweets(_ context.Context, req domain.GenerateRequest) (*domain.GenerateReport, error) {
	s.lastGen = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &domain.GenerateReport{CreatedUserIDs: []string{"u1"}, CreatedTweetIDs: []string{"t1", "t2"}}, nil
}

func do(t *testing.T, h *rest.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterTo(mux)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestBaseScript(t *testing.T) {
	svc := &stubScripts{}
	rec := do(t, rest.NewHandler(svc, nil), "/api/v1/admin-scripts/base-script",
		`{"nUsers":10,"nTweetsPerUser":3,"lUsersForDeletion":2}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.BaseScriptRequest{NUsers: 10, NTweetsPerUser: 3, LUsersForDeletion: 2}, svc.lastBase)

	var resp rest.BaseScriptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"u1", "u2"}, resp.CreatedUsers)
	assert.Equal(t, 2, resp.Statistics.TotalUsersCreated)
	assert.Equal(t, int64(12), resp.Statistics.ExecutionTimeMs)
	assert.Equal(t, []string{"Failed to create user 3: boom"}, resp.Statistics.Errors)

	// Les listes vides sont des tableaux, jamais null
	assert.Contains(t, rec.Body.String(), `"deletedTweets":[]`)
}

func TestBaseScriptInvalidRequest(t *testing.T) {
	rec := do(t, rest.NewHandler(&stubScripts{}, nil), "/api/v1/admin-scripts/base-script",
		`{"nUsers":0,"nTweetsPerUser":3}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var p httpx.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "FORMAT", p.ValidationType)
	assert.Equal(t, "nUsers", p.FieldName)
}

func TestGenerate(t *testing.T) {
	svc := &stubScripts{}
	rec := do(t, rest.NewHandler(svc, nil), "/api/v1/admin-scripts/generate-users-and-tweets",
		`{"nUsers":1,"nTweetsPerUser":2}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp rest.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"t1", "t2"}, resp.CreatedTweets)
	assert.Equal(t, []string{}, resp.Statistics.Errors)
}

func TestGenerateUnknownField(t *testing.T) {
	rec := do(t, rest.NewHandler(&stubScripts{}, nil), "/api/v1/admin-scripts/generate-users-and-tweets",
		`{"nUsers":1,"nTweetsPerUser":2,"lUsersForDeletion":1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuardedRoutes(t *testing.T) {
	h := rest.NewHandler(&stubScripts{}, auth.Middleware("k3y"))
	body := `{"nUsers":1,"nTweetsPerUser":1}`

	rec := do(t, h, "/api/v1/admin-scripts/generate-users-and-tweets", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, "/api/v1/admin-scripts/generate-users-and-tweets", body, map[string]string{"Authorization": "Bearer k3y"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
