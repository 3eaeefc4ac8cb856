package status

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/tui/theme"
)

const dot = "●"

// Indicator shows whether the notification stream is connected.
type Indicator struct {
	Connecting bool
	Live       bool
}

func (i Indicator) Render() string {
	switch {
	case i.Live:
		return lipgloss.NewStyle().Foreground(theme.ColorLive).Render(dot + " live")
	case i.Connecting:
		return lipgloss.NewStyle().Foreground(theme.ColorBgLight).Render(dot + " connecting...")
	default:
		return lipgloss.NewStyle().Foreground(theme.ColorOffline).Render(dot + " offline")
	}
}
