package analytics

import "github.com/garrettladley/moyo/internal/model"

// Color is a hex color string for a chart point.
type Color string

const (
	ColorNormal     Color = "#4caf50"
	ColorElevated   Color = "#ff9800"
	ColorHighStage1 Color = "#f44336"
	ColorHighStage2 Color = "#d32f2f"
	ColorUnknown    Color = "#757575"
)

func ColorFor(c model.Category) Color {
	switch c {
	case model.CategoryNormal:
		return ColorNormal
	case model.CategoryElevated:
		return ColorElevated
	case model.CategoryHighStage1:
		return ColorHighStage1
	case model.CategoryHighStage2:
		return ColorHighStage2
	default:
		return ColorUnknown
	}
}

// Series holds parallel chart arrays in chronological order.
type Series struct {
	Labels      []string         `json:"labels"`
	Systolic    []int            `json:"systolic"`
	Diastolic   []int            `json:"diastolic"`
	PointColors []Color          `json:"point_colors"`
	Categories  []model.Category `json:"categories"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels)
}

// LabelLayout is the time layout used for x-axis labels of period p.
func LabelLayout(p Period) string {
	switch p {
	case Period7Days, Period30Days, Period90Days:
		return "Jan 02"
	case Period1Year:
		return "Jan 2006"
	default:
		return "Jan 02, 2006"
	}
}

// BuildSeries turns window-filtered readings into chart arrays. It returns
// nil when there is nothing to render. Labels are formatted in each
// reading's own location.
func BuildSeries(filtered []model.Reading, period Period, mode CategoryMode) *Series {
	if len(filtered) == 0 {
		return nil
	}

	layout := LabelLayout(period)
	s := &Series{
		Labels:      make([]string, 0, len(filtered)),
		Systolic:    make([]int, 0, len(filtered)),
		Diastolic:   make([]int, 0, len(filtered)),
		PointColors: make([]Color, 0, len(filtered)),
		Categories:  make([]model.Category, 0, len(filtered)),
	}
	for _, r := range filtered {
		c := CategoryOf(r, mode)
		s.Labels = append(s.Labels, r.RecordedAt.Format(layout))
		s.Systolic = append(s.Systolic, r.Systolic)
		s.Diastolic = append(s.Diastolic, r.Diastolic)
		s.PointColors = append(s.PointColors, ColorFor(c))
		s.Categories = append(s.Categories, c)
	}
	return s
}

// CountByCategory tallies readings by category under mode. Every valid
// category has an entry, including zero counts.
func CountByCategory(readings []model.Reading, mode CategoryMode) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories)+1)
	for _, c := range model.Categories {
		counts[c] = 0
	}
	for _, r := range readings {
		counts[CategoryOf(r, mode)]++
	}
	return counts
}
