package rest

import (
	"net/http"

	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/ports"
)

// Handler adapte le port primaire UserService vers REST.
type Handler struct {
	service ports.UserService
}

func NewHandler(service ports.UserService) *Handler {
	return &Handler{service: service}
}

// RegisterTo enregistre les routes /api/v1/users sur le mux.
func (h *Handler) RegisterTo(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/users", httpx.Wrap(h.create))
	mux.Handle("GET /api/v1/users", httpx.Wrap(h.list))
	mux.Handle("GET /api/v1/users/{id}", httpx.Wrap(h.get))
	mux.Handle("PUT /api/v1/users/{id}", httpx.Wrap(h.update))
	mux.Handle("PATCH /api/v1/users/{id}", httpx.Wrap(h.patch))
	mux.Handle("PATCH /api/v1/users/{id}/inactivate", httpx.Wrap(h.inactivate))
	mux.Handle("PATCH /api/v1/users/{id}/activate", httpx.Wrap(h.activate))
	mux.Handle("PATCH /api/v1/users/{id}/role", httpx.Wrap(h.changeRole))
	mux.Handle("GET /api/v1/users/{id}/exists", httpx.Wrap(h.exists))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	req, err := httpx.Decode[CreateUserRequest](r)
	if err != nil {
		return err
	}

	user, err := h.service.CreateUser(r.Context(), ports.CreateUserCmd{
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Location", "/api/v1/users/"+user.ID)
	httpx.WriteJSON(w, toResponse(user), http.StatusCreated)
	return nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	pr, err := httpx.PageRequest(r)
	if err != nil {
		return err
	}

	q := ports.ListUsersQuery{
		Login: r.URL.Query().Get("login"),
		Email: r.URL.Query().Get("email"),
		Page:  pr,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return err
		}
		q.Status = &status
	}
	if s := r.URL.Query().Get("role"); s != "" {
		role, err := domain.ParseRole(s)
		if err != nil {
			return err
		}
		q.Role = &role
	}

	page, err := h.service.ListUsers(r.Context(), q)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, paging.Map(page, toResponse), http.StatusOK)
	return nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := httpx.Decode[UpdateUserRequest](r)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateUser(r.Context(), ports.UpdateUserCmd{
		ID:        id,
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := httpx.Decode[PatchUserRequest](r)
	if err != nil {
		return err
	}

	user, err := h.service.PatchUser(r.Context(), ports.PatchUserCmd{
		ID:        id,
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) inactivate(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	user, err := h.service.DeactivateUser(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	user, err := h.service.ActivateUser(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := httpx.Decode[ChangeRoleRequest](r)
	if err != nil {
		return err
	}
	user, err := h.service.ChangeRole(r.Context(), id, req.Role)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) exists(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	ok, err := h.service.Exists(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, ExistsResponse{UserID: id, Exists: ok}, http.StatusOK)
	return nil
}
