// Package db opens the CLI's local sqlite database.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/moyo/internal/migrations"
)

const driver = "sqlite3"

// Open opens the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open(driver, "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	if err := migrations.Apply(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return sqlDB, nil
}
