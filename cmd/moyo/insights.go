package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func insightsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generated insights and alerts",
	}
	cmd.AddCommand(insightsListCmd(flags), insightsReadCmd(flags))
	return cmd
}

func insightsListCmd(flags *globalFlags) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List insights, newest first",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			insights, err := a.client().Insights(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(insights))
			for _, in := range insights {
				if unread && in.IsRead {
					continue
				}
				read := ""
				if !in.IsRead {
					read = "●"
				}
				rows = append(rows, []string{
					strconv.FormatInt(in.ID, 10),
					read,
					string(in.Severity),
					string(in.InsightType),
					in.GeneratedAt.Local().Format(dateTimeLayout),
					in.InsightText,
				})
			}
			if len(rows) == 0 {
				fmt.Println("No insights")
				return nil
			}
			printTable([]string{"ID", "", "Severity", "Type", "Generated", "Insight"}, rows)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread insights")
	return cmd
}

func insightsReadCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark an insight as read",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			in, err := a.client().MarkInsightRead(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Println(in.InsightText)
			return nil
		}),
	}
}
