package middleware

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/version"
	"github.com/garrettladley/moyo/internal/xerrors"
	"github.com/garrettladley/moyo/internal/xslog"
)

// VersionCheck rejects moyo CLI clients whose major version differs from the
// server. Requests without a version header (browsers, curl) pass through.
func VersionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientVersion := r.Header.Get(version.Header)
		if clientVersion == "" {
			next.ServeHTTP(w, r)
			return
		}

		if verr := version.CheckCompatibility(clientVersion); verr != nil {
			xslog.FromContext(r.Context()).WarnContext(
				r.Context(),
				"client version incompatible",
				xslog.ClientVersion(verr.ClientVersion),
				xslog.MinVersion(verr.MinVersion),
				xslog.RequestPath(r),
			)
			xerrors.WriteError(r.Context(), w, xerrors.UpgradeRequired(xerrors.WithMessage(verr.Error())))
			return
		}

		next.ServeHTTP(w, r)
	})
}
