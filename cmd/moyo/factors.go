package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/model"
)

func factorsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Daily sleep, stress and exercise",
	}
	cmd.AddCommand(factorsListCmd(flags), factorsAddCmd(flags))
	return cmd
}

func factorsListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List health factors",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			factors, err := a.client().HealthFactors(cmd.Context())
			if err != nil {
				return err
			}
			if len(factors) == 0 {
				fmt.Println("No health factors recorded")
				return nil
			}

			rows := make([][]string, 0, len(factors))
			for _, f := range factors {
				rows = append(rows, []string{
					strconv.FormatInt(f.ID, 10),
					f.Date.String(),
					intOrDash(f.SleepQuality),
					intOrDash(f.StressLevel),
					intOrDash(f.ExerciseDuration),
					orDash(f.Notes),
				})
			}
			printTable([]string{"ID", "Date", "Sleep", "Stress", "Exercise (min)", "Notes"}, rows)
			return nil
		}),
	}
}

func factorsAddCmd(flags *globalFlags) *cobra.Command {
	var (
		date                    string
		sleep, stress, exercise int
		notes                   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record the factors for a day",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			in := moyo.HealthFactorInput{
				Date:             model.DateOf(time.Now()),
				SleepQuality:     optionalInt(cmd, "sleep", sleep),
				StressLevel:      optionalInt(cmd, "stress", stress),
				ExerciseDuration: optionalInt(cmd, "exercise", exercise),
				Notes:            notes,
			}
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				in.Date = d
			}

			f, err := a.client().CreateHealthFactor(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Saved factors for %s\n", f.Date)
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&sleep, "sleep", 0, "sleep quality 1-5")
	cmd.Flags().IntVar(&stress, "stress", 0, "stress level 1-5")
	cmd.Flags().IntVar(&exercise, "exercise", 0, "exercise in minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}
