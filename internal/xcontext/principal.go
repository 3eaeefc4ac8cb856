package xcontext

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

type principalKey struct{}

func SetPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) (Principal, bool) {
	return value[Principal](ctx, principalKey{})
}
