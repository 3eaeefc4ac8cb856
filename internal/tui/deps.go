package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/client/sse"
	"github.com/garrettladley/moyo/internal/model"
)

type ReadingSource interface {
	Readings(ctx context.Context, params *moyo.WindowParams) ([]model.Reading, error)
}

type Deps struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Readings ReadingSource
	// Stream is optional; without it the view never refreshes on its own.
	Stream *sse.Client
	Window analytics.Window
	Mode   analytics.CategoryMode
	Now    func() time.Time
}
