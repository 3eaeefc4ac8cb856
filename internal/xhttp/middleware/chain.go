package middleware

import "net/http"

type Middleware = func(http.Handler) http.Handler

// Chain wraps h so that the first middleware is the outermost. The
// middleware slice is not modified.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
