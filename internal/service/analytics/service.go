package analytics

import (
	"context"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

type Trend struct {
	Period analytics.Period       `json:"period"`
	Mode   analytics.CategoryMode `json:"mode"`
	Count  int                    `json:"count"`
	// Series is nil when no reading survives the window.
	Series *analytics.Series `json:"series"`
}

type Summary struct {
	Total      int                    `json:"total"`
	Categories map[model.Category]int `json:"categories"`
	Latest     *model.Reading         `json:"latest"`
}

type Service interface {
	// Trends builds the chart series of a user's readings inside w.
	Trends(ctx context.Context, userID int64, w analytics.Window, mode analytics.CategoryMode) (*Trend, error)

	// Correlations matches readings with same-day health factors inside w.
	// The result is never nil; an empty result has zero matched days.
	Correlations(ctx context.Context, userID int64, w analytics.Window) (*analytics.Correlation, error)

	// Summary counts every reading of a user per category.
	Summary(ctx context.Context, userID int64) (*Summary, error)
}
