package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/client/moyo"
)

const fetchTimeout = 15 * time.Second

// fetchReadingsCmd loads every reading once; windows are then applied
// locally so switching them does not hit the server.
func fetchReadingsCmd(ctx context.Context, src ReadingSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		readings, err := src.Readings(ctx, &moyo.WindowParams{Period: analytics.PeriodAll})
		return ReadingsMsg{Readings: readings, Err: err}
	}
}
