// Package migrations keeps the CLI's sqlite schema current.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/garrettladley/moyo/internal/xslog"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs every embedded migration not yet recorded in migrations_history.
// Each file runs in its own transaction together with its history row, so a
// failed file leaves no partial schema behind.
func Apply(ctx context.Context, db *sql.DB) error {
	if err := createHistoryTable(ctx, db); err != nil {
		return err
	}

	names, err := pending(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range names {
		content, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if err := applyOne(ctx, db, name, string(content)); err != nil {
			return err
		}
		xslog.FromContext(ctx).DebugContext(ctx, "applied migration", xslog.Migration(name))
	}
	return nil
}

// pending lists unapplied migration files in name order.
func pending(ctx context.Context, db *sql.DB) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)

	out := names[:0]
	for _, name := range names {
		applied, err := isMigrationApplied(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if !applied {
			out = append(out, name)
		}
	}
	return out, nil
}

func applyOne(ctx context.Context, db *sql.DB, name, content string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for stmt := range strings.SplitSeq(content, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO migrations_history (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("recording migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

func createHistoryTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations history table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations_history WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if migration applied: %w", err)
	}
	return count > 0, nil
}
