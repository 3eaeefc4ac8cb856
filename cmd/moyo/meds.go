package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/model"
)

func medsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meds",
		Short: "Medications and doses",
	}
	cmd.AddCommand(medsListCmd(flags), medsAddCmd(flags), medsLogCmd(flags))
	return cmd
}

func medsListCmd(flags *globalFlags) *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List medications",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			meds, err := a.client().Medications(cmd.Context(), active)
			if err != nil {
				return err
			}
			if len(meds) == 0 {
				fmt.Println("No medications")
				return nil
			}

			rows := make([][]string, 0, len(meds))
			for _, m := range meds {
				end := "-"
				if m.EndDate != nil {
					end = m.EndDate.String()
				}
				state := "inactive"
				if m.IsActive {
					state = "active"
				}
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10),
					m.Name,
					m.Dosage,
					string(m.Frequency),
					m.StartDate.String(),
					end,
					state,
					intOrDash(m.RecentLogsCount),
				})
			}
			printTable([]string{"ID", "Name", "Dosage", "Frequency", "Start", "End", "State", "Doses (7d)"}, rows)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&active, "active", false, "only active medications")
	return cmd
}

func medsAddCmd(flags *globalFlags) *cobra.Command {
	var (
		in         moyo.MedicationInput
		frequency  string
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a medication",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			in.Frequency = model.Frequency(frequency)
			in.StartDate = model.DateOf(time.Now())
			if start != "" {
				d, err := model.ParseDate(start)
				if err != nil {
					return err
				}
				in.StartDate = d
			}
			if end != "" {
				d, err := model.ParseDate(end)
				if err != nil {
					return err
				}
				in.EndDate = &d
			}

			m, err := a.client().CreateMedication(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Added medication %d: %s %s\n", m.ID, m.Name, m.Dosage)
			return nil
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "medication name")
	cmd.Flags().StringVar(&in.Dosage, "dosage", "", "dosage, e.g. 10mg")
	cmd.Flags().StringVar(&frequency, "frequency", string(model.FrequencyOnceDaily), "once_daily, twice_daily, three_times_daily, four_times_daily, as_needed, weekly or other")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("dosage")
	return cmd
}

func medsLogCmd(flags *globalFlags) *cobra.Command {
	var at, notes string

	cmd := &cobra.Command{
		Use:   "log <medication-id>",
		Short: "Record a dose",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			in := moyo.DoseInput{Notes: notes}
			if at != "" {
				t, err := parseTime(at)
				if err != nil {
					return err
				}
				in.TakenAt = &t
			}

			l, err := a.client().LogDose(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s at %s\n", orDash(l.MedicationName), l.TakenAt.Local().Format(dateTimeLayout))
			return nil
		}),
	}

	cmd.Flags().StringVar(&at, "at", "", "when it was taken (default now)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}
