package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/db"
	"github.com/garrettladley/moyo/internal/paths"
	"github.com/garrettladley/moyo/internal/session"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dbPath, err := paths.DB()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			sqlDB, err := db.Open(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				_ = sqlDB.Close()
			}()

			rec, err := session.NewSQLStore(sqlDB).Load(ctx)
			if err != nil {
				return err
			}
			token := rec.Token

			fmt.Printf("Server:        %s\n", rec.ServerURL)
			fmt.Printf("Email:         %s\n", rec.Email)
			fmt.Printf("Access Token:  %s\n", token.AccessToken)
			fmt.Printf("Refresh Token: %s\n", token.RefreshToken)
			fmt.Printf("Token Type:    %s\n", token.TokenType)
			if rec.IsAdmin != nil {
				fmt.Printf("Admin:         %t\n", *rec.IsAdmin)
			}

			if token.Expiry.IsZero() {
				fmt.Printf("Expiry:        unknown\n")
				return nil
			}
			fmt.Printf("Expiry:        %s\n", token.Expiry.Format(time.RFC3339))
			if token.Expiry.Before(time.Now()) {
				fmt.Printf("Status:        EXPIRED\n")
			} else {
				fmt.Printf("Status:        Valid (expires in %s)\n", time.Until(token.Expiry).Round(time.Second))
			}

			return nil
		},
	}
}
