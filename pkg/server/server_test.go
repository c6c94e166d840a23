package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
	"github.com/jupiterclapton/tweetsuite/pkg/server"
)

func TestHandlerRoutes(t *testing.T) {
	hc := healthcheck.New("follow-service")
	hc.SetServing(true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := server.Handler(server.Options{Name: "follow-service", CORSOrigins: []string{"*"}}, mux, metrics.New("follow-service"), hc)

	for path, want := range map[string]int{
		"/api/v1/ping": http.StatusTeapot,
		"/healthz":     http.StatusOK,
		"/metrics":     http.StatusOK,
		"/nope":        http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
