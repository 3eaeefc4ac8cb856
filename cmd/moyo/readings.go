package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/client/moyo"
)

func readingsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readings",
		Short: "List, add and delete blood pressure readings",
	}
	cmd.AddCommand(readingsListCmd(flags), readingsAddCmd(flags), readingsDeleteCmd(flags))
	return cmd
}

func readingsListCmd(flags *globalFlags) *cobra.Command {
	var (
		wf   windowFlags
		mode string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List readings in a window",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			params, err := wf.params()
			if err != nil {
				return err
			}
			m, err := analytics.ParseMode(mode)
			if err != nil {
				return err
			}

			readings, err := a.client().Readings(cmd.Context(), params)
			if err != nil {
				return err
			}
			if len(readings) == 0 {
				fmt.Println("No readings in this window")
				return nil
			}

			rows := make([][]string, 0, len(readings))
			for _, r := range readings {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.RecordedAt.Local().Format(dateTimeLayout),
					fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic),
					intOrDash(r.HeartRate),
					categoryCell(analytics.CategoryOf(r, m)),
					orDash(r.Notes),
				})
			}
			printTable([]string{"ID", "Recorded", "BP", "HR", "Category", "Notes"}, rows)
			return nil
		}),
	}

	wf.register(cmd, analytics.PeriodAll)
	cmd.Flags().StringVar(&mode, "mode", string(analytics.ModePreferServer), "category source: server, local or prefer_server")
	return cmd
}

func readingsAddCmd(flags *globalFlags) *cobra.Command {
	var (
		heartRate int
		at        string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "add <systolic> <diastolic>",
		Short: "Record a reading",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			in := moyo.ReadingInput{
				HeartRate:  optionalInt(cmd, "heart-rate", heartRate),
				RecordedAt: time.Now(),
				Notes:      notes,
			}
			var err error
			if in.Systolic, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid systolic %q", args[0])
			}
			if in.Diastolic, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid diastolic %q", args[1])
			}
			if at != "" {
				if in.RecordedAt, err = parseTime(at); err != nil {
					return err
				}
			}

			r, err := a.client().CreateReading(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Saved reading %d: %d/%d %s\n", r.ID, r.Systolic, r.Diastolic, categoryCell(analytics.CategoryOf(r, analytics.ModePreferServer)))
			return nil
		}),
	}

	cmd.Flags().IntVar(&heartRate, "heart-rate", 0, "heart rate in bpm")
	cmd.Flags().StringVar(&at, "at", "", "when it was taken (default now)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func readingsDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reading",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := a.client().DeleteReading(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted reading %d\n", id)
			return nil
		}),
	}
}
