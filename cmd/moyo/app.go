package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/config"
	"github.com/garrettladley/moyo/internal/db"
	"github.com/garrettladley/moyo/internal/paths"
	"github.com/garrettladley/moyo/internal/session"
	"github.com/garrettladley/moyo/internal/xslog"
)

type globalFlags struct {
	server  string
	verbose bool
}

// app is everything a command needs to talk to the server.
type app struct {
	serverURL string
	logger    *slog.Logger
	db        *sql.DB
	session   *session.Session
}

func openApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	serverURL := cfg.ServerURL
	if flags.server != "" {
		serverURL = flags.server
	}

	logger := xslog.Discard()
	if flags.verbose {
		level := xslog.FromEnv()
		if cfg.Env.IsDevelopment() {
			level = xslog.LevelDebug
		}
		logger = xslog.NewLogger(os.Stderr, level, xslog.FormatFromEnv(xslog.FormatText))
	}
	ctx := xslog.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)

	if _, err := paths.EnsureDir(); err != nil {
		return nil, err
	}
	dbPath, err := paths.DB()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{
		serverURL: serverURL,
		logger:    logger,
		db:        sqlDB,
		session:   session.New(serverURL, session.NewSQLStore(sqlDB), moyo.WithLogger(logger)),
	}, nil
}

func (a *app) client() *moyo.Client {
	return a.session.Client(moyo.WithLogger(a.logger))
}

func (a *app) Close() {
	_ = a.db.Close()
}

// withApp opens the app for the duration of run.
func withApp(flags *globalFlags, run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, flags)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}
