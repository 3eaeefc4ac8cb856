// Package chart renders blood pressure series as braille line charts.
package chart

import (
	"image/color"
	"slices"
	"strconv"
	"strings"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/tui/theme"
)

// each braille cell is 2 dots wide and 4 dots tall
const (
	dotsPerCol = 2
	dotsPerRow = 4
)

const (
	gutterWidth = 5
	yPadding    = 10

	// dashed guides at the top of the normal range
	guideSystolic  = 120
	guideDiastolic = 80
)

const emptyBraille rune = '⠀'

// Chart draws systolic as a line colored by category and diastolic as a
// single-color line underneath it.
type Chart struct {
	Series *analytics.Series
	// Width and Height are in terminal cells and include the axes.
	Width  int
	Height int
}

func New(s *analytics.Series, width, height int) Chart {
	return Chart{Series: s, Width: width, Height: height}
}

type layer struct {
	canvas drawille.Canvas
	color  color.Color
}

func (c Chart) Render() string {
	plotCols := c.Width - gutterWidth
	plotRows := c.Height - 1
	if c.Series.Len() == 0 || plotCols < 2 || plotRows < 2 {
		return lipgloss.NewStyle().Foreground(theme.ColorDim).Render("no readings in this window")
	}

	var (
		dotsW  = plotCols * dotsPerCol
		dotsH  = plotRows * dotsPerRow
		lo, hi = yRange(c.Series)
		scale  = scaler{lo: lo, hi: hi, height: dotsH}
		n      = c.Series.Len()
	)

	x := func(i int) int {
		if n == 1 {
			return dotsW / 2
		}
		return i * (dotsW - 1) / (n - 1)
	}

	guides := layer{canvas: drawille.NewCanvas(), color: theme.ColorAxis}
	dashed(&guides.canvas, dotsW, scale.y(guideSystolic))
	dashed(&guides.canvas, dotsW, scale.y(guideDiastolic))

	diastolic := layer{canvas: drawille.NewCanvas(), color: theme.ColorDiastolic}
	for i := range n {
		y := scale.y(c.Series.Diastolic[i])
		if i == 0 {
			diastolic.canvas.Set(x(i), y)
			continue
		}
		line(&diastolic.canvas, x(i-1), scale.y(c.Series.Diastolic[i-1]), x(i), y)
	}

	// one layer per category so later, more severe layers win a shared cell
	byCategory := make(map[model.Category]*layer, len(model.Categories)+1)
	for _, cat := range append([]model.Category{model.CategoryUnknown}, model.Categories...) {
		byCategory[cat] = &layer{canvas: drawille.NewCanvas(), color: theme.CategoryColor(cat)}
	}
	for i := range n {
		l := byCategory[c.Series.Categories[i]]
		if l == nil {
			l = byCategory[model.CategoryUnknown]
		}
		y := scale.y(c.Series.Systolic[i])
		if i == 0 {
			l.canvas.Set(x(i), y)
			continue
		}
		line(&l.canvas, x(i-1), scale.y(c.Series.Systolic[i-1]), x(i), y)
	}

	layers := []*layer{&guides, &diastolic, byCategory[model.CategoryUnknown]}
	for _, cat := range model.Categories {
		layers = append(layers, byCategory[cat])
	}

	plot := compose(layers, plotCols, plotRows)
	return lipgloss.JoinVertical(lipgloss.Left,
		withYAxis(plot, lo, hi),
		xAxis(c.Series.Labels, plotCols),
	)
}

type scaler struct {
	lo, hi int
	height int
}

// y maps a pressure to a dot row, with larger values nearer the top.
func (s scaler) y(v int) int {
	if s.hi == s.lo {
		return s.height / 2
	}
	row := (s.hi - v) * (s.height - 1) / (s.hi - s.lo)
	return min(max(row, 0), s.height-1)
}

func yRange(s *analytics.Series) (int, int) {
	lo := min(slices.Min(s.Diastolic), guideDiastolic) - yPadding
	hi := max(slices.Max(s.Systolic), guideSystolic) + yPadding
	return max(lo, 0), hi
}

// line draws a segment with Bresenham's algorithm.
func line(c *drawille.Canvas, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func dashed(c *drawille.Canvas, width, y int) {
	for x := 0; x < width; x += 4 {
		c.Set(x, y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// compose merges the layers cell by cell. Dots from every layer are kept and
// the cell takes the color of the topmost layer with a dot in it.
func compose(layers []*layer, cols, rows int) []string {
	grids := make([][][]rune, len(layers))
	for i, l := range layers {
		grids[i] = cells(&l.canvas, cols, rows)
	}

	lines := make([]string, rows)
	for r := range rows {
		var b strings.Builder
		for col := range cols {
			merged := emptyBraille
			var top color.Color
			for i, g := range grids {
				ch := g[r][col]
				if ch == emptyBraille {
					continue
				}
				merged = combineBraille(merged, ch)
				top = layers[i].color
			}
			if top == nil {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(top).Render(string(merged)))
		}
		lines[r] = b.String()
	}
	return lines
}

// cells reads the canvas into a fixed rows x cols grid of braille runes.
func cells(c *drawille.Canvas, cols, rows int) [][]rune {
	out := make([][]rune, rows)
	src := c.Rows(0, 0, cols*dotsPerCol, rows*dotsPerRow)
	for r := range rows {
		out[r] = slices.Repeat([]rune{emptyBraille}, cols)
		if r >= len(src) {
			continue
		}
		for col, ch := range []rune(src[r]) {
			if col >= cols {
				break
			}
			if isBraille(ch) {
				out[r][col] = ch
			}
		}
	}
	return out
}

func isBraille(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}

func combineBraille(a, b rune) rune {
	return emptyBraille + ((a - emptyBraille) | (b - emptyBraille))
}

func withYAxis(plot []string, lo, hi int) string {
	axis := lipgloss.NewStyle().Foreground(theme.ColorDim).Width(gutterWidth - 1).Align(lipgloss.Right)
	mid := (lo + hi) / 2

	var b strings.Builder
	for i, row := range plot {
		label := ""
		switch i {
		case 0:
			label = strconv.Itoa(hi)
		case len(plot) / 2:
			label = strconv.Itoa(mid)
		case len(plot) - 1:
			label = strconv.Itoa(lo)
		}
		b.WriteString(axis.Render(label))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorAxis).Render("│"))
		b.WriteString(row)
		if i < len(plot)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func xAxis(labels []string, cols int) string {
	style := lipgloss.NewStyle().Foreground(theme.ColorDim)
	first, last := labels[0], labels[len(labels)-1]

	pad := cols - lipgloss.Width(first) - lipgloss.Width(last)
	if len(labels) == 1 || pad < 1 {
		return strings.Repeat(" ", gutterWidth) + style.Render(first)
	}
	return strings.Repeat(" ", gutterWidth) + style.Render(first+strings.Repeat(" ", pad)+last)
}
