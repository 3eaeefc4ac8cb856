package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

var (
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
	ColorAxis  = lipgloss.Color("#3A4652")
)

var (
	ColorDiastolic = lipgloss.Color("#67AEE6")
	ColorLive      = lipgloss.Color("#16EC06")
	ColorOffline   = lipgloss.Color("#FF0026")
)

var (
	ColorBgDark  = lipgloss.Color("#101518")
	ColorBgLight = lipgloss.Color("#283339")
)

// CategoryColor is the chart color of c, shared with the web palette.
func CategoryColor(c model.Category) color.Color {
	return lipgloss.Color(string(analytics.ColorFor(c)))
}
