package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/model"
)

type Theme struct {
	background color.Color
	foreground color.Color
	base       lipgloss.Style
}

func New() Theme {
	var t Theme

	t.background = ColorBgDark
	t.foreground = ColorWhite
	t.base = lipgloss.NewStyle().Foreground(t.foreground)

	return t
}

func (t Theme) Base() lipgloss.Style {
	return t.base
}

func (t Theme) Title() lipgloss.Style {
	return t.base.Bold(true)
}

func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorDim)
}

// Category styles a label in the color of c.
func (t Theme) Category(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Bold(true)
}

func (t Theme) Background() color.Color {
	return t.background
}
