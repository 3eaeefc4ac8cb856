package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/db"
	"github.com/garrettladley/moyo/internal/migrations/postgres"
	"github.com/garrettladley/moyo/internal/paths"
)

func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Applies the local sqlite migrations, or the server's postgres migrations when --database-url or $DATABASE_URL is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if databaseURL != "" {
				pool, err := pgxpool.New(ctx, databaseURL)
				if err != nil {
					return fmt.Errorf("failed to connect to postgres: %w", err)
				}
				defer pool.Close()

				if err := postgres.Apply(ctx, pool); err != nil {
					return err
				}
				fmt.Println("Postgres migrations applied successfully")
				return nil
			}

			if _, err := paths.EnsureDir(); err != nil {
				return err
			}
			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			sqlDB, err := db.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = sqlDB.Close()
			}()

			fmt.Println("Migrations applied successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection string (defaults to $DATABASE_URL)")
	return cmd
}
