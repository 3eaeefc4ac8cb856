package main

import (
	"fmt"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/model"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type windowFlags struct {
	period string
	start  string
	end    string
}

func (f *windowFlags) register(cmd *cobra.Command, def analytics.Period) {
	cmd.Flags().StringVarP(&f.period, "window", "w", string(def), "7d, 30d, 90d, 1y, all or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "custom window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "custom window end (YYYY-MM-DD, default today)")
}

// window resolves the flags in the local time zone. Bounds imply a custom
// window.
func (f *windowFlags) window() (analytics.Window, error) {
	var (
		w   analytics.Window
		err error
	)
	if f.start != "" || f.end != "" {
		f.period = string(analytics.PeriodCustom)
	}
	if w.Period, err = analytics.ParsePeriod(f.period); err != nil {
		return analytics.Window{}, err
	}
	if w.Period != analytics.PeriodCustom {
		return w, nil
	}

	// Without --start the window reaches back to the first reading.
	if f.start != "" {
		start, err := time.ParseInLocation(dateLayout, f.start, time.Local)
		if err != nil {
			return analytics.Window{}, fmt.Errorf("invalid --start: %w", err)
		}
		w.CustomStart = &start
	}

	if f.end != "" {
		end, err := time.ParseInLocation(dateLayout, f.end, time.Local)
		if err != nil {
			return analytics.Window{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = analytics.EndOfDay(end)
		w.CustomEnd = &end
	}
	return w, nil
}

func (f *windowFlags) params() (*moyo.WindowParams, error) {
	w, err := f.window()
	if err != nil {
		return nil, err
	}
	return &moyo.WindowParams{Period: w.Period, Start: w.CustomStart, End: w.CustomEnd}, nil
}

// parseTime accepts RFC 3339 or a local "YYYY-MM-DD HH:MM".
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or %q", s, dateTimeLayout)
	}
	return t, nil
}

// optionalInt returns nil for an unset flag.
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, _ = fmt.Fprintln(os.Stdout, t.String())
}

func categoryCell(c model.Category) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(analytics.ColorFor(c)))).Render(c.Label())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
