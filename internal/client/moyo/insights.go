package moyo

import (
	"context"
	"net/http"
	"strconv"

	"github.com/garrettladley/moyo/internal/model"
)

func (c *Client) Insights(ctx context.Context) ([]model.UserInsight, error) {
	var insights []model.UserInsight
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/insights"}, &insights)
	return insights, err
}

func (c *Client) MarkInsightRead(ctx context.Context, id int64) (model.UserInsight, error) {
	var in model.UserInsight
	path := "/api/insights/" + strconv.FormatInt(id, 10) + "/mark-read"
	err := c.do(ctx, request{method: http.MethodPost, path: path}, &in)
	return in, err
}
