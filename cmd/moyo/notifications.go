package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/sse"
	"github.com/garrettladley/moyo/internal/model"
)

func notificationsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Live notifications",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print notifications as they arrive",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			// fail fast when logged out instead of retrying forever
			if _, err := a.session.Token(); err != nil {
				return err
			}

			client := sse.NewClient(a.serverURL, a.session, a.logger)
			err := client.Connect(cmd.Context(), func(n model.NotificationLog) {
				fmt.Printf("[%s] %s: %s\n", n.SentAt.Local().Format(dateTimeLayout), orDash(n.Subject), n.Message)
			})
			switch {
			case errors.Is(err, context.Canceled):
				return nil
			case errors.Is(err, sse.ErrUnauthorized):
				return fmt.Errorf("%w: run `moyo login` again", err)
			}
			return err
		}),
	})
	return cmd
}
