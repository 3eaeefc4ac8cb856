package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var migrationDirs = map[string]string{
	"client": filepath.Join("internal", "migrations", "sql"),
	"server": filepath.Join("internal", "migrations", "postgres", "sql"),
}

var migrationName = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

func newMigrationCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new migration file",
		Long:  "Creates the next numbered, empty migration for the sqlite client cache (--target client) or the postgres server schema (--target server).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !migrationName.MatchString(name) {
				return fmt.Errorf("invalid migration name %q: use lower_snake_case", name)
			}

			dir, ok := migrationDirs[target]
			if !ok {
				return fmt.Errorf("unknown target %q: want client or server", target)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to read migrations directory: %w", err)
			}

			filename := filepath.Join(dir, fmt.Sprintf("%06d_%s.sql", getNextMigrationNum(entries), name))
			content := fmt.Sprintf("-- %s migration: %s\n\n", target, name)

			f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("failed to create migration file: %w", err)
			}
			if _, err := f.WriteString(content); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write migration file: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write migration file: %w", err)
			}

			cmd.Printf("Created migration: %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "client", "migration set: client (sqlite) or server (postgres)")
	return cmd
}

// getNextMigrationNum returns one past the highest NNNNNN_ prefix among the
// .sql entries.
func getNextMigrationNum(entries []os.DirEntry) int {
	highest := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
