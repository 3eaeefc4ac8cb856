package moyo

import (
	"context"
	"net/http"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

type HealthFactorInput struct {
	Date             model.Date `json:"date"`
	SleepQuality     *int       `json:"sleep_quality,omitempty"`
	StressLevel      *int       `json:"stress_level,omitempty"`
	ExerciseDuration *int       `json:"exercise_duration,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// HealthFactors lists the caller's factors, dropping malformed records.
func (c *Client) HealthFactors(ctx context.Context) ([]model.HealthFactor, error) {
	body, err := c.raw(ctx, request{method: http.MethodGet, path: "/api/health-factors"})
	if err != nil {
		return nil, err
	}
	return analytics.DecodeHealthFactors(body), nil
}

func (c *Client) CreateHealthFactor(ctx context.Context, in HealthFactorInput) (model.HealthFactor, error) {
	var f model.HealthFactor
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/health-factors", body: in}, &f)
	return f, err
}
