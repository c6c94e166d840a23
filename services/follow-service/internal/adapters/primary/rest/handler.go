package rest

import (
	"context"
	"net/http"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
)

type Handler struct {
	service ports.FollowService
}

func NewHandler(service ports.FollowService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterTo(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/follows", httpx.Wrap(h.follow))
	mux.Handle("DELETE /api/v1/follows/{followerId}/{followingId}", httpx.Wrap(h.unfollow))
	mux.Handle("GET /api/v1/follows/{userId}/followers", httpx.Wrap(h.followers))
	mux.Handle("GET /api/v1/follows/{userId}/following", httpx.Wrap(h.following))
	mux.Handle("GET /api/v1/follows/{userId}/stats", httpx.Wrap(h.stats))
	mux.Handle("GET /api/v1/follows/{userId}/relation/{targetId}", httpx.Wrap(h.relation))
}

func (h *Handler) follow(w http.ResponseWriter, r *http.Request) error {
	req, err := httpx.Decode[FollowRequest](r)
	if err != nil {
		return err
	}

	// Toutes les erreurs de format sont remontées ensemble
	var fe apperr.FormatErrors
	follower, err := httpx.ParseUUID("followerId", req.FollowerID)
	fe.Add(err)
	following, err := httpx.ParseUUID("followingId", req.FollowingID)
	fe.Add(err)
	if err := fe.OrNil(); err != nil {
		return err
	}

	f, err := h.service.Follow(r.Context(), follower, following)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toFollowResponse(f), http.StatusCreated)
	return nil
}

func (h *Handler) unfollow(w http.ResponseWriter, r *http.Request) error {
	follower, err := httpx.PathUUID(r, "followerId")
	if err != nil {
		return err
	}
	following, err := httpx.PathUUID(r, "followingId")
	if err != nil {
		return err
	}
	if err := h.service.Unfollow(r.Context(), follower, following); err != nil {
		return err
	}
	httpx.NoContent(w)
	return nil
}

func (h *Handler) followers(w http.ResponseWriter, r *http.Request) error {
	return h.listPage(w, r, h.service.ListFollowers)
}

func (h *Handler) following(w http.ResponseWriter, r *http.Request) error {
	return h.listPage(w, r, h.service.ListFollowing)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) error {
	userID, err := httpx.PathUUID(r, "userId")
	if err != nil {
		return err
	}
	st, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, StatsResponse{UserID: st.UserID, FollowersCount: st.FollowersCount, FollowingCount: st.FollowingCount}, http.StatusOK)
	return nil
}

func (h *Handler) relation(w http.ResponseWriter, r *http.Request) error {
	userID, err := httpx.PathUUID(r, "userId")
	if err != nil {
		return err
	}
	targetID, err := httpx.PathUUID(r, "targetId")
	if err != nil {
		return err
	}
	st, err := h.service.CheckRelation(r.Context(), userID, targetID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, RelationResponse{IsFollowing: st.IsFollowing, IsFollowedBy: st.IsFollowedBy}, http.StatusOK)
	return nil
}

type listFn func(ctx context.Context, userID string, page paging.Request) (paging.Page[*domain.Follow], error)

func (h *Handler) listPage(w http.ResponseWriter, r *http.Request, list listFn) error {
	userID, err := httpx.PathUUID(r, "userId")
	if err != nil {
		return err
	}
	pr, err := httpx.PageRequest(r)
	if err != nil {
		return err
	}
	page, err := list(r.Context(), userID, pr)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, paging.Map(page, toFollowResponse), http.StatusOK)
	return nil
}
