package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mws := []Middleware{tag("outer"), tag("inner")}
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })

	// a reused slice keeps its order
	for range 2 {
		order = nil
		req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil)
		Chain(h, mws...).ServeHTTP(httptest.NewRecorder(), req)

		if diff := cmp.Diff([]string{"outer", "inner", "handler"}, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	}
}
