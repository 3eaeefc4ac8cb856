package moyo

import (
	"net/url"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
)

// WindowParams narrows a listing the same way the analytics window does.
type WindowParams struct {
	Period analytics.Period
	Start  *time.Time
	End    *time.Time
}

func (p *WindowParams) values() url.Values {
	if p == nil {
		return nil
	}

	v := make(url.Values)

	if p.Period != "" {
		v.Set("window", string(p.Period))
	}
	if p.Start != nil {
		v.Set("start", p.Start.Format(time.RFC3339))
	}
	if p.End != nil {
		v.Set("end", p.End.Format(time.RFC3339))
	}

	return v
}
