package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/garrettladley/moyo/internal/service/user"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Users struct {
	service user.Service
}

func NewUsers(service user.Service) *Users {
	return &Users{service: service}
}

// HandleList handles GET /api/admin/users requests.
func (h *Users) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.service.List(ctx)
	if err != nil {
		internal(ctx, w, "failed to list users", err)
		return
	}

	xhttp.WriteOK(w, users)
}

// HandleGet handles GET /api/admin/users/{id} requests.
func (h *Users) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(ctx, id)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		notFound(ctx, w, "user")
		return
	case err != nil:
		internal(ctx, w, "failed to load user", err)
		return
	}

	xhttp.WriteOK(w, u)
}

// HandleDelete handles DELETE /api/admin/users/{id} requests.
func (h *Users) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(ctx, id)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		notFound(ctx, w, "user")
		return
	case err != nil:
		internal(ctx, w, "failed to delete user", err)
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "deleted user", slog.Int64("target_user_id", id))
	xhttp.WriteNoContent(w)
}
