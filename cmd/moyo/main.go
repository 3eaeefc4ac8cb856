package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/version"
)

func main() {
	_ = godotenv.Load()

	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:          "moyo",
		Short:        "Blood pressure tracking in your terminal",
		Version:      version.Get(),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.server, "server", "", "server URL (default $MOYO_SERVER_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(
		registerCmd(&flags),
		loginCmd(&flags),
		logoutCmd(&flags),
		whoamiCmd(&flags),
		readingsCmd(&flags),
		factorsCmd(&flags),
		medsCmd(&flags),
		insightsCmd(&flags),
		trendsCmd(&flags),
		correlationsCmd(&flags),
		classifyCmd(),
		notificationsCmd(&flags),
		upgradeCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
