// Package tui is the interactive blood pressure trend view.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/tui/components/chart"
	"github.com/garrettladley/moyo/internal/tui/components/footer"
	"github.com/garrettladley/moyo/internal/tui/components/status"
	"github.com/garrettladley/moyo/internal/tui/theme"
	"github.com/garrettladley/moyo/internal/xslog"
)

var _ tea.Model = (*Model)(nil)

// windows cycled by the w key; custom ranges come only from flags
var windows = []analytics.Period{
	analytics.Period7Days,
	analytics.Period30Days,
	analytics.Period90Days,
	analytics.Period1Year,
	analytics.PeriodAll,
}

var modes = []analytics.CategoryMode{
	analytics.ModePreferServer,
	analytics.ModeTrustServer,
	analytics.ModeComputeLocal,
}

const keyHints = "w window  m mode  r reload  q quit"

type Model struct {
	ready          bool
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	deps           Deps

	window analytics.Window
	mode   analytics.CategoryMode

	loading  bool
	err      error
	readings []model.Reading

	stream status.Indicator
	events chan tea.Msg
	last   *model.NotificationLog
}

func New(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Window.Period == "" {
		deps.Window.Period = analytics.DefaultPeriod
	}
	if deps.Mode == "" {
		deps.Mode = analytics.ModePreferServer
	}
	return Model{
		theme:   theme.New(),
		deps:    deps,
		window:  deps.Window,
		mode:    deps.Mode,
		loading: true,
		stream:  status.Indicator{Connecting: deps.Stream != nil},
		events:  make(chan tea.Msg, 8),
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchReadingsCmd(m.deps.Ctx, m.deps.Readings)}
	if m.deps.Stream != nil {
		cmds = append(cmds,
			StartStreamCmd(m.deps.Ctx, m.deps.Stream, m.events),
			ListenStreamCmd(m.deps.Ctx, m.events),
		)
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w", "tab":
			m.window = analytics.Window{Period: next(windows, m.window.Period)}
		case "m":
			m.mode = next(modes, m.mode)
		case "r":
			m.loading = true
			return m, fetchReadingsCmd(m.deps.Ctx, m.deps.Readings)
		}

	case ReadingsMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.readings = msg.Readings
		} else if m.deps.Logger != nil {
			m.deps.Logger.Warn("failed to load readings", xslog.Error(msg.Err))
		}

	case StreamStatusMsg:
		m.stream = status.Indicator{Live: msg.Live, Connecting: !msg.Live}
		return m, ListenStreamCmd(m.deps.Ctx, m.events)

	case NotificationMsg:
		n := msg.Notification
		m.last = &n
		// an alert usually follows a new reading
		return m, tea.Batch(
			fetchReadingsCmd(m.deps.Ctx, m.deps.Readings),
			ListenStreamCmd(m.deps.Ctx, m.events),
		)

	case StreamClosedMsg:
		m.stream = status.Indicator{}
	}

	return m, nil
}

func next[T comparable](options []T, cur T) T {
	i := slices.Index(options, cur)
	return options[(i+1)%len(options)]
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true
	view.BackgroundColor = m.theme.Background()

	if !m.ready {
		return view
	}

	view.SetContent(m.render())
	return view
}

func (m *Model) render() string {
	filtered := analytics.FilterByWindow(m.readings, m.window, m.deps.Now())
	series := analytics.BuildSeries(filtered, m.window.Period, m.mode)

	header := m.headerView(len(filtered))
	legend := m.legendView(filtered)
	notice := m.noticeView()
	foot := footer.New(keyHints, m.stream.Render(), m.viewportWidth).Render()

	reserved := lipgloss.Height(header) + lipgloss.Height(legend) + lipgloss.Height(notice) + lipgloss.Height(foot) + 2
	chartHeight := max(m.viewportHeight-reserved, 4)

	var body string
	switch {
	case m.loading && m.readings == nil:
		body = m.theme.Muted().Render("loading readings...")
	case m.err != nil && m.readings == nil:
		body = lipgloss.NewStyle().Foreground(theme.ColorOffline).Render(m.err.Error())
	default:
		body = chart.New(series, m.viewportWidth-4, chartHeight).Render()
	}
	body = lipgloss.Place(m.viewportWidth, chartHeight+1, lipgloss.Center, lipgloss.Center, body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, legend, notice, foot)
}

func (m *Model) headerView(count int) string {
	title := m.theme.Title().Render("Blood pressure")
	meta := m.theme.Muted().Render(fmt.Sprintf("  %s · %d readings · %s", m.window.Period, count, m.mode))
	return lipgloss.NewStyle().Padding(1, 2, 0, 2).Render(title + meta)
}

func (m *Model) legendView(filtered []model.Reading) string {
	counts := analytics.CountByCategory(filtered, m.mode)

	parts := make([]string, 0, len(model.Categories)+1)
	for _, c := range model.Categories {
		parts = append(parts, m.theme.Category(c).Render(fmt.Sprintf("■ %s %d", c.Label(), counts[c])))
	}
	if n := counts[model.CategoryUnknown]; n > 0 {
		parts = append(parts, m.theme.Category(model.CategoryUnknown).Render(fmt.Sprintf("■ unclassified %d", n)))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorDiastolic).Render("── diastolic"))

	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(parts, "   "))
}

func (m *Model) noticeView() string {
	if m.last == nil {
		return ""
	}
	text := m.last.Subject
	if text == "" {
		text = m.last.Message
	}
	return lipgloss.NewStyle().PaddingLeft(2).Foreground(theme.ColorWhite).
		Render("▲ " + text + m.theme.Muted().Render("  "+m.last.SentAt.Local().Format("Jan 02 15:04")))
}
