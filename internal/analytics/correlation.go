package analytics

import (
	"time"

	"github.com/garrettladley/moyo/internal/model"
)

// Match pairs a reading with the health factor of the same calendar day.
type Match struct {
	Reading model.Reading      `json:"reading"`
	Factor  model.HealthFactor `json:"factor"`
	Date    model.Date         `json:"date"`
}

// MatchByDate pairs every reading with the first factor recorded on the
// same calendar day in loc. Readings without such a factor are dropped, and
// one factor may be paired with several readings.
func MatchByDate(readings []model.Reading, factors []model.HealthFactor, loc *time.Location) []Match {
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[model.Date]int, len(factors))
	for i, f := range factors {
		if f.Date.IsZero() {
			continue
		}
		if _, ok := byDate[f.Date]; !ok {
			byDate[f.Date] = i
		}
	}

	matches := make([]Match, 0, len(readings))
	for _, r := range readings {
		if !validPressure(r) || r.RecordedAt.IsZero() {
			continue
		}
		day := model.DateOf(r.RecordedAt.In(loc))
		i, ok := byDate[day]
		if !ok {
			continue
		}
		matches = append(matches, Match{Reading: r, Factor: factors[i], Date: day})
	}
	return matches
}

// ExerciseRange is an inclusive minute range. Max < 0 means unbounded.
type ExerciseRange struct {
	Label string
	Min   int
	Max   int
}

func (e ExerciseRange) contains(minutes int) bool {
	return minutes >= e.Min && (e.Max < 0 || minutes <= e.Max)
}

var ExerciseRanges = []ExerciseRange{
	{Label: "0-15", Min: 0, Max: 15},
	{Label: "16-30", Min: 16, Max: 30},
	{Label: "31-60", Min: 31, Max: 60},
	{Label: "60+", Min: 61, Max: -1},
}

type Bucket struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	MeanPressure float64 `json:"mean_pressure"`
}

// ExerciseBuckets averages mean pressure per exercise range. A missing
// duration counts as zero minutes and an empty bucket reports exactly 0.
func ExerciseBuckets(matches []Match) []Bucket {
	sums := make([]float64, len(ExerciseRanges))
	buckets := make([]Bucket, len(ExerciseRanges))
	for i, r := range ExerciseRanges {
		buckets[i].Label = r.Label
	}

	for _, m := range matches {
		minutes := deref(m.Factor.ExerciseDuration)
		for i, r := range ExerciseRanges {
			if r.contains(minutes) {
				buckets[i].Count++
				sums[i] += m.Reading.MeanPressure()
				break
			}
		}
	}

	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].MeanPressure = sums[i] / float64(buckets[i].Count)
		}
	}
	return buckets
}

// Point is one scatter point: a rating against mean pressure.
type Point struct {
	X    int        `json:"x"`
	Y    float64    `json:"y"`
	Date model.Date `json:"date"`
}

func SleepScatter(matches []Match) []Point {
	return scatter(matches, func(f model.HealthFactor) *int { return f.SleepQuality })
}

func StressScatter(matches []Match) []Point {
	return scatter(matches, func(f model.HealthFactor) *int { return f.StressLevel })
}

func scatter(matches []Match, rating func(model.HealthFactor) *int) []Point {
	points := make([]Point, 0, len(matches))
	for _, m := range matches {
		points = append(points, Point{
			X:    deref(rating(m.Factor)),
			Y:    m.Reading.MeanPressure(),
			Date: m.Date,
		})
	}
	return points
}

type Correlation struct {
	MatchedDays int      `json:"matched_days"`
	Matches     []Match  `json:"matches"`
	Sleep       []Point  `json:"sleep"`
	Stress      []Point  `json:"stress"`
	Exercise    []Bucket `json:"exercise"`
}

// Correlate runs the matcher and all aggregates. It returns nil when no
// reading has a same-day factor.
func Correlate(readings []model.Reading, factors []model.HealthFactor, loc *time.Location) *Correlation {
	matches := MatchByDate(readings, factors, loc)
	if len(matches) == 0 {
		return nil
	}

	days := make(map[model.Date]struct{}, len(matches))
	for _, m := range matches {
		days[m.Date] = struct{}{}
	}

	return &Correlation{
		MatchedDays: len(days),
		Matches:     matches,
		Sleep:       SleepScatter(matches),
		Stress:      StressScatter(matches),
		Exercise:    ExerciseBuckets(matches),
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
