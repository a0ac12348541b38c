// Package app wires configuration into the services shared by the API, the
// CLI and the TUI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/toby-sam/budget/internal/config"
	"github.com/toby-sam/budget/internal/database"
	"github.com/toby-sam/budget/internal/export"
	"github.com/toby-sam/budget/internal/importer"
	"github.com/toby-sam/budget/internal/importer/phbank"
	"github.com/toby-sam/budget/internal/store"
	"github.com/toby-sam/budget/internal/store/file"
	"github.com/toby-sam/budget/internal/store/sqlstore"
	"github.com/toby-sam/budget/internal/tracker"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Tracker  *tracker.Service
	Importer *importer.Service
	Exporter *export.Service

	db *sql.DB
}

// NewLogger returns a text logger at the configured level.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))
}

// Open builds the services and loads the document.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	medium, db, err := OpenMedium(cfg)
	if err != nil {
		return nil, err
	}

	profile, err := PHProfile(cfg)
	if err != nil {
		if db != nil {
			db.Close()
		}

		return nil, err
	}

	st := store.New(medium,
		store.WithKey(cfg.Storage.DocumentKey),
		store.WithUndoDepth(cfg.Storage.UndoDepth),
		store.WithLogger(logger),
	)
	st.Load(ctx)

	trackerSvc := tracker.NewService(st,
		tracker.WithRatePolicy(tracker.PolicyFor(cfg.Budget.RecomputeAllOnRateChange)),
		tracker.WithLogger(logger),
	)

	logger.Info("document loaded", "storage", cfg.Storage.Driver, "key", cfg.Storage.DocumentKey, "profile", profile.String())

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Tracker:  trackerSvc,
		Importer: importer.NewService(profile),
		Exporter: export.NewService(trackerSvc),
		db:       db,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}

// OpenMedium returns the configured persistence medium. The *sql.DB is nil for
// the file medium.
func OpenMedium(cfg *config.Config) (store.Medium, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		m, err := file.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening data dir: %w", err)
		}

		return m, nil, nil

	case config.StorageSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating sqlite dir: %w", err)
			}
		}

		if err := database.Migrate(database.DriverSQLite, cfg.Storage.SQLitePath); err != nil {
			return nil, nil, err
		}

		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		return sqlstore.New(db, sqlstore.SQLite), db, nil

	case config.StoragePostgres:
		if err := database.Migrate(database.DriverPostgres, cfg.ConnectionString()); err != nil {
			return nil, nil, err
		}

		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		return sqlstore.New(db, sqlstore.Postgres), db, nil
	}

	return nil, nil, fmt.Errorf("unsupported storage %q", cfg.Storage.Driver)
}

// PHProfile picks the Philippines statement layout: explicit columns win over
// the named profile.
func PHProfile(cfg *config.Config) (phbank.Profile, error) {
	if cols := strings.TrimSpace(cfg.Budget.PHImportColumns); cols != "" {
		p, err := phbank.ParseColumns(cols)
		if err != nil {
			return phbank.Profile{}, fmt.Errorf("PH_IMPORT_COLUMNS: %w", err)
		}

		return p, nil
	}

	return phbank.ProfileByName(cfg.Budget.PHImportProfile)
}
