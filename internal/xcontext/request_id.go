// Package xcontext holds the request-scoped values shared by middleware and
// handlers.
package xcontext

import "context"

type requestIDKey struct{}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) (string, bool) {
	return value[string](ctx, requestIDKey{})
}

func value[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}
