package server

import (
	"context"
	"time"
)

// ShutdownCoordinator cancels the base context of every request so that
// long-lived SSE streams can say goodbye before http.Server.Shutdown runs.
type ShutdownCoordinator struct {
	baseCtx     context.Context
	cancel      context.CancelFunc
	gracePeriod time.Duration
}

func NewShutdownCoordinator(gracePeriod time.Duration) *ShutdownCoordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownCoordinator{
		baseCtx:     ctx,
		cancel:      cancel,
		gracePeriod: gracePeriod,
	}
}

// BaseContext is installed as http.Server.BaseContext.
func (sc *ShutdownCoordinator) BaseContext() context.Context {
	return sc.baseCtx
}

// Done is closed once shutdown starts. Background workers select on it.
func (sc *ShutdownCoordinator) Done() <-chan struct{} {
	return sc.baseCtx.Done()
}

// InitiateShutdown cancels the base context and blocks for the grace period,
// or until ctx is done.
func (sc *ShutdownCoordinator) InitiateShutdown(ctx context.Context) {
	sc.cancel()

	t := time.NewTimer(sc.gracePeriod)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
