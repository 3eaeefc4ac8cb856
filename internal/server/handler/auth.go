package handler

import (
	"errors"
	"net/http"

	"github.com/garrettladley/moyo/internal/service/auth"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
)

type Auth struct {
	service auth.Service
}

func NewAuth(service auth.Service) *Auth {
	return &Auth{service: service}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *Auth) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req auth.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.service.Register(ctx, req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			xerrors.WriteError(ctx, w, xerrors.Validation(map[string]string{"email": "user with this email already exists"}))
			return
		}
		internal(ctx, w, "failed to register", err)
		return
	}

	xhttp.WriteCreated(w, result)
}

// HandleLogin handles POST /api/token requests.
func (h *Auth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req auth.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("invalid email or password")))
			return
		}
		internal(ctx, w, "failed to log in", err)
		return
	}

	xhttp.WriteOK(w, result)
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// HandleRefresh handles POST /api/token/refresh requests.
func (h *Auth) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req auth.RefreshRequest
	if err := xhttp.DecodeJSON(r, &req); err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid JSON body")))
		return
	}

	pair, err := h.service.Refresh(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("token is invalid or expired")))
			return
		}
		internal(ctx, w, "failed to refresh token", err)
		return
	}

	xhttp.WriteOK(w, refreshResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// HandleLogout handles POST /api/auth/logout requests.
func (h *Auth) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req auth.RefreshRequest
	if err := xhttp.DecodeJSON(r, &req); err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid JSON body")))
		return
	}

	if err := h.service.Logout(ctx, req.Refresh); err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("invalid or missing refresh token")))
			return
		}
		internal(ctx, w, "failed to log out", err)
		return
	}

	xhttp.WriteNoContent(w)
}

// HandleGetProfile handles GET /api/auth/profile requests.
func (h *Auth) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	u, err := h.service.Profile(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			notFound(ctx, w, "user")
			return
		}
		internal(ctx, w, "failed to get profile", err)
		return
	}

	xhttp.WriteOK(w, u)
}

// HandleUpdateProfile handles PUT /api/auth/profile requests.
func (h *Auth) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req auth.ProfileRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.service.UpdateProfile(ctx, p.UserID, req)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			notFound(ctx, w, "user")
			return
		}
		internal(ctx, w, "failed to update profile", err)
		return
	}

	xhttp.WriteOK(w, u)
}
