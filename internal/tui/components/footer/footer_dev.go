//go:build !release

package footer

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/tui/theme"
	"github.com/garrettladley/moyo/internal/version"
)

// Development builds show which binary is drawing the chart.
func (Footer) leftContent() string {
	return lipgloss.NewStyle().Foreground(theme.ColorAxis).Render("moyo " + version.Get())
}
