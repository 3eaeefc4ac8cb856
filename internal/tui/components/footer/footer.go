package footer

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/tui/theme"
)

var hintStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)

// Footer lays out build info on the left, key hints in the middle and
// status on the right.
type Footer struct {
	hint         string
	rightContent string
	width        int
	padding      int
}

func New(hint, rightContent string, width int) Footer {
	return Footer{
		hint:         hint,
		rightContent: rightContent,
		width:        width,
		padding:      2,
	}
}

func (f Footer) Render() string {
	var (
		left  = f.leftContent()
		hint  = hintStyle.Render(f.hint)
		inner = f.width - f.padding*2
		free  = inner - lipgloss.Width(left) - lipgloss.Width(hint) - lipgloss.Width(f.rightContent)
	)
	if free < 2 {
		hint = ""
		free = max(inner-lipgloss.Width(left)-lipgloss.Width(f.rightContent), 0)
	}

	gapLeft := free / 2
	gapRight := free - gapLeft

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		Render(left + strings.Repeat(" ", gapLeft) + hint + strings.Repeat(" ", gapRight) + f.rightContent)
}
