package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/analytics"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <systolic> <diastolic>",
		Short: "Preview the category of a reading without saving it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid systolic %q", args[0])
			}
			dia, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid diastolic %q", args[1])
			}
			fmt.Printf("%d/%d %s\n", sys, dia, categoryCell(analytics.Classify(sys, dia)))
			return nil
		},
	}
}
