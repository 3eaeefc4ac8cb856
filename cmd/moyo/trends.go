package main

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/client/sse"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/tui"
)

func trendsCmd(flags *globalFlags) *cobra.Command {
	var (
		wf    windowFlags
		mode  string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Blood pressure trend chart",
		Long:  "Opens the interactive trend view. With --plain, prints the chart data as a table.",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			w, err := wf.window()
			if err != nil {
				return err
			}
			m, err := analytics.ParseMode(mode)
			if err != nil {
				return err
			}

			if plain {
				return printTrends(cmd.Context(), a, w, m)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			view := tui.New(tui.Deps{
				Ctx:      ctx,
				Logger:   a.logger,
				Readings: a.client(),
				Stream:   sse.NewClient(a.serverURL, a.session, a.logger),
				Window:   w,
				Mode:     m,
			})
			if _, err := tea.NewProgram(&view, tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("trend view: %w", err)
			}
			return nil
		}),
	}

	wf.register(cmd, analytics.DefaultPeriod)
	cmd.Flags().StringVar(&mode, "mode", string(analytics.ModePreferServer), "category source: server, local or prefer_server")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive view")
	return cmd
}

func printTrends(ctx context.Context, a *app, w analytics.Window, mode analytics.CategoryMode) error {
	readings, err := a.client().Readings(ctx, nil)
	if err != nil {
		return err
	}

	filtered := analytics.FilterByWindow(readings, w, time.Now())
	series := analytics.BuildSeries(filtered, w.Period, mode)
	if series.Len() == 0 {
		fmt.Println("No readings in this window")
		return nil
	}

	rows := make([][]string, 0, series.Len())
	for i := range series.Len() {
		rows = append(rows, []string{
			series.Labels[i],
			fmt.Sprint(series.Systolic[i]),
			fmt.Sprint(series.Diastolic[i]),
			categoryCell(series.Categories[i]),
		})
	}
	printTable([]string{"Date", "Systolic", "Diastolic", "Category"}, rows)

	counts := analytics.CountByCategory(filtered, mode)
	for _, c := range model.Categories {
		fmt.Printf("%s: %d  ", categoryCell(c), counts[c])
	}
	fmt.Println()
	return nil
}
