package chart

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	drawille "github.com/exrook/drawille-go"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

func TestCombineBraille(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b rune
		want rune
	}{
		{name: "empty with empty", a: '⠀', b: '⠀', want: '⠀'},
		{name: "disjoint dots", a: '⠁', b: '⠈', want: '⠉'},
		{name: "overlapping dots", a: '⠉', b: '⠁', want: '⠉'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := combineBraille(tt.a, tt.b); got != tt.want {
				t.Errorf("combineBraille(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScalerY(t *testing.T) {
	t.Parallel()

	s := scaler{lo: 60, hi: 160, height: 101}

	tests := []struct {
		v    int
		want int
	}{
		{v: 160, want: 0},
		{v: 60, want: 100},
		{v: 110, want: 50},
		{v: 500, want: 0},
		{v: 0, want: 100},
	}
	for _, tt := range tests {
		if got := s.y(tt.v); got != tt.want {
			t.Errorf("y(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestYRangeIncludesGuides(t *testing.T) {
	t.Parallel()

	s := &analytics.Series{Systolic: []int{110, 115}, Diastolic: []int{70, 72}}
	lo, hi := yRange(s)
	if lo != 60 {
		t.Errorf("lo = %d, want 60", lo)
	}
	if hi != 130 {
		t.Errorf("hi = %d, want 130", hi)
	}
}

func TestLineConnectsEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{name: "flat", x0: 0, y0: 3, x1: 7, y1: 3},
		{name: "steep", x0: 1, y0: 0, x1: 2, y1: 7},
		{name: "descending", x0: 7, y0: 7, x1: 0, y1: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := layer{canvas: drawille.NewCanvas()}
			line(&l.canvas, tt.x0, tt.y0, tt.x1, tt.y1)
			grid := cells(&l.canvas, 4, 2)

			for _, p := range [][2]int{{tt.x0, tt.y0}, {tt.x1, tt.y1}} {
				if grid[p[1]/dotsPerRow][p[0]/dotsPerCol] == emptyBraille {
					t.Errorf("cell for dot %v is empty", p)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	got := New(nil, 40, 10).Render()
	if !strings.Contains(got, "no readings") {
		t.Errorf("Render() = %q, want empty-state message", got)
	}
}

func TestRenderDimensions(t *testing.T) {
	t.Parallel()

	s := &analytics.Series{
		Labels:     []string{"Jan 01", "Jan 02", "Jan 03"},
		Systolic:   []int{118, 135, 150},
		Diastolic:  []int{76, 85, 95},
		Categories: []model.Category{model.CategoryNormal, model.CategoryHighStage1, model.CategoryHighStage2},
	}

	out := New(s, 40, 12).Render()

	if got := lipgloss.Height(out); got != 12 {
		t.Errorf("height = %d, want 12", got)
	}
	if got := lipgloss.Width(out); got != 40 {
		t.Errorf("width = %d, want 40", got)
	}
	lines := strings.Split(out, "\n")
	if last := lines[len(lines)-1]; !strings.Contains(last, "Jan 03") {
		t.Errorf("x axis = %q, want last label", last)
	}
}
