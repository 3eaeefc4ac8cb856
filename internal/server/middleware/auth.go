package middleware

import (
	"errors"
	"net/http"

	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/xcontext"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

// BearerAuth verifies the access token and stores the caller's principal in
// the request context.
func BearerAuth(tokens token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw, _ := xhttp.GetBearerToken(r)

			claims, err := tokens.ParseAccess(ctx, raw)
			if err != nil {
				xslog.FromContext(ctx).DebugContext(ctx, "token validation failed",
					xslog.RequestPath(r),
					xslog.ErrorGroup(err))

				switch {
				case errors.Is(err, token.ErrMissingToken):
					xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("authentication credentials were not provided")))
				case errors.Is(err, token.ErrInvalidToken):
					xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("token is invalid or expired")))
				default:
					xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("token validation failed"), xerrors.WithCause(err)))
				}
				return
			}

			principal := xcontext.Principal{UserID: claims.UserID, IsAdmin: claims.IsAdmin}
			ctx = xcontext.SetPrincipal(ctx, principal)
			ctx = xslog.WithAttrs(ctx, xslog.PrincipalGroup(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets through only staff and superusers. It must run after
// BearerAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		p, ok := xcontext.GetPrincipal(ctx)
		if !ok {
			xerrors.WriteError(ctx, w, xerrors.Unauthorized(xerrors.WithMessage("authentication credentials were not provided")))
			return
		}
		if !p.IsAdmin {
			xslog.FromContext(ctx).WarnContext(ctx, "non-admin on admin route", xslog.RequestPath(r))
			xerrors.WriteError(ctx, w, xerrors.Forbidden(xerrors.WithMessage("you do not have permission to perform this action")))
			return
		}

		next.ServeHTTP(w, r)
	})
}
