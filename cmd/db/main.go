// Command db manages the moyo schemas: it scaffolds new migration files and
// applies pending ones to the local sqlite cache or the server's postgres.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// DATABASE_URL may come from the same .env the server reads.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "db",
		Short:        "Manage moyo database migrations",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newMigrationCmd(),
		migrateCmd(),
		tokenCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
