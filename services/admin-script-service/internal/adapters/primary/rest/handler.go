package rest

import (
	"net/http"

	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/ports"
)

type Handler struct {
	scripts ports.ScriptService
	guard   httpx.Middleware
}

// NewHandler : guard protège les routes (auth.Middleware), nil pour aucune protection.
func NewHandler(scripts ports.ScriptService, guard httpx.Middleware) *Handler {
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{scripts: scripts, guard: guard}
}

func (h *Handler) RegisterTo(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/admin-scripts/base-script", h.guard(httpx.Wrap(h.baseScript)))
	mux.Handle("POST /api/v1/admin-scripts/generate-users-and-tweets", h.guard(httpx.Wrap(h.generate)))
}

func (h *Handler) baseScript(w http.ResponseWriter, r *http.Request) error {
	req, err := httpx.Decode[BaseScriptRequest](r)
	if err != nil {
		return err
	}
	report, err := h.scripts.RunBaseScript(r.Context(), domain.BaseScriptRequest(req))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ToBaseScriptResponse(report), http.StatusOK)
	return nil
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) error {
	req, err := httpx.Decode[GenerateRequest](r)
	if err != nil {
		return err
	}
	report, err := h.scripts.GenerateUsersAndTweets(r.Context(), domain.GenerateRequest(req))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ToGenerateResponse(report), http.StatusOK)
	return nil
}
