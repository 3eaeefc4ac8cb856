package xcontext

import "context"

type shutdownInProgressKey struct{}

// SetShutdownInProgress marks ctx as belonging to a server that is draining,
// so long-lived handlers can tell a shutdown from a client disconnect.
func SetShutdownInProgress(ctx context.Context, inProgress bool) context.Context {
	return context.WithValue(ctx, shutdownInProgressKey{}, inProgress)
}

func IsShutdownInProgress(ctx context.Context) bool {
	inProgress, _ := value[bool](ctx, shutdownInProgressKey{})
	return inProgress
}
