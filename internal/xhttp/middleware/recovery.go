package middleware

import (
	"errors"
	"net/http"

	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

// Recovery turns a handler panic into a 500. http.ErrAbortHandler is
// re-raised so net/http can drop the connection quietly.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			xslog.FromContext(r.Context()).ErrorContext(r.Context(), "panic recovered",
				xslog.RequestGroup(r),
				xslog.ErrorGroupWithStack(v),
			)
			xhttp.Error(w, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
