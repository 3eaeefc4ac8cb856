// Package postgres applies the server schema. Migrations are embedded so the
// server binary can bring a fresh database up on start.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/moyo/internal/xslog"
)

const (
	migrationsDir = "sql"
	// lockKey serializes migrators when several server replicas start at
	// once. Any constant works as long as nothing else uses it.
	lockKey int64 = 0x6d6f796f
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply runs, in file name order, every embedded migration missing from
// migrations_history. Each file commits together with its history row.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", lockKey)
	}()

	if _, err := conn.Exec(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create migrations history table: %w", err)
	}

	applied, err := appliedMigrations(ctx, conn.Conn())
	if err != nil {
		return err
	}

	names, err := embeddedMigrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		if applied[name] {
			continue
		}
		if err := applyOne(ctx, conn.Conn(), name); err != nil {
			return err
		}
		xslog.FromContext(ctx).InfoContext(ctx, "applied migration", xslog.Migration(name))
	}
	return nil
}

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS migrations_history (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func embeddedMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, "SELECT name FROM migrations_history")
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func applyOne(ctx context.Context, conn *pgx.Conn, name string) error {
	content, err := fs.ReadFile(migrationsFS, path.Join(migrationsDir, name))
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		for stmt := range strings.SplitSeq(string(content), ";") {
			if stmt = strings.TrimSpace(stmt); stmt == "" {
				continue
			}
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
		}
		if _, err := tx.Exec(ctx, "INSERT INTO migrations_history (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		return nil
	})
}
