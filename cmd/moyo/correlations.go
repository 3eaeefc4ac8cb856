package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
)

func correlationsCmd(flags *globalFlags) *cobra.Command {
	var wf windowFlags

	cmd := &cobra.Command{
		Use:   "correlations",
		Short: "How sleep, stress and exercise line up with your readings",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			w, err := wf.window()
			if err != nil {
				return err
			}

			readings, factors, err := fetchCorrelationInputs(cmd.Context(), a)
			if err != nil {
				return err
			}

			filtered := analytics.FilterByWindow(readings, w, time.Now())
			c := analytics.Correlate(filtered, factors, time.Local)
			if c == nil {
				fmt.Println("No readings share a day with recorded health factors")
				return nil
			}
			printCorrelation(c)
			return nil
		}),
	}

	wf.register(cmd, analytics.DefaultPeriod)
	return cmd
}

func fetchCorrelationInputs(ctx context.Context, a *app) ([]model.Reading, []model.HealthFactor, error) {
	var (
		readings []model.Reading
		factors  []model.HealthFactor
		client   = a.client()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		readings, err = client.Readings(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		factors, err = client.HealthFactors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return readings, factors, nil
}

func printCorrelation(c *analytics.Correlation) {
	fmt.Printf("%d matched days\n\n", c.MatchedDays)

	rows := make([][]string, 0, len(c.Exercise))
	for _, b := range c.Exercise {
		mean := "-"
		if b.Count > 0 {
			mean = fmt.Sprintf("%.1f", b.MeanPressure)
		}
		rows = append(rows, []string{b.Label, fmt.Sprint(b.Count), mean})
	}
	printTable([]string{"Exercise", "Readings", "Mean pressure"}, rows)

	printScatter("Sleep quality", c.Sleep)
	printScatter("Stress level", c.Stress)
}

// printScatter summarizes a scatter as the mean pressure per rating.
func printScatter(title string, points []analytics.Point) {
	if len(points) == 0 {
		return
	}

	var (
		sums   [model.MaxRating + 1]float64
		counts [model.MaxRating + 1]int
	)
	for _, p := range points {
		if p.X < model.MinRating || p.X > model.MaxRating {
			continue
		}
		sums[p.X] += p.Y
		counts[p.X]++
	}

	rows := make([][]string, 0, model.MaxRating)
	for r := model.MinRating; r <= model.MaxRating; r++ {
		mean := "-"
		if counts[r] > 0 {
			mean = fmt.Sprintf("%.1f", sums[r]/float64(counts[r]))
		}
		rows = append(rows, []string{fmt.Sprint(r), fmt.Sprint(counts[r]), mean})
	}
	printTable([]string{title, "Readings", "Mean pressure"}, rows)
}
