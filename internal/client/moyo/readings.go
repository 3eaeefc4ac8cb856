package moyo

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

type ReadingInput struct {
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	HeartRate  *int      `json:"heart_rate,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes,omitempty"`
}

// Readings lists the caller's readings. Malformed records are dropped
// rather than failing the whole listing.
func (c *Client) Readings(ctx context.Context, params *WindowParams) ([]model.Reading, error) {
	body, err := c.raw(ctx, request{method: http.MethodGet, path: "/api/readings", query: params.values()})
	if err != nil {
		return nil, err
	}
	return analytics.DecodeReadings(body), nil
}

func (c *Client) CreateReading(ctx context.Context, in ReadingInput) (model.Reading, error) {
	var r model.Reading
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/readings", body: in}, &r)
	return r, err
}

func (c *Client) DeleteReading(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/readings/" + strconv.FormatInt(id, 10)}, nil)
}
