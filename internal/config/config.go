package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Budget"`
		Host     string `envconfig:"HOST" default:"127.0.0.1"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Storage struct {
		Driver      string `envconfig:"STORAGE" default:"file"`
		DataDir     string `envconfig:"DATA_DIR" default:"data"`
		SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/budget.db"`
		DocumentKey string `envconfig:"DOCUMENT_KEY" default:"tobyBudgetV1_categories_budget_ledger_v1"`
		UndoDepth   int    `envconfig:"UNDO_DEPTH" default:"10"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"budget"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:*,http://127.0.0.1:*"`
	}

	Budget struct {
		// RecomputeAllOnRateChange re-prices every Philippines row with a peso
		// amount when the rate changes.
		RecomputeAllOnRateChange bool   `envconfig:"RECOMPUTE_ALL_ON_RATE_CHANGE" default:"true"`
		PHImportProfile          string `envconfig:"PH_IMPORT_PROFILE" default:"current"`
		// PHImportColumns overrides the profile, e.g. "4,5,6,12".
		PHImportColumns string `envconfig:"PH_IMPORT_COLUMNS"`
		CloseMonthClear bool   `envconfig:"CLOSE_MONTH_CLEAR" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unsupported STORAGE %q: want %s, %s or %s",
			c.Storage.Driver, StorageFile, StorageSQLite, StoragePostgres)
	}

	if strings.TrimSpace(c.Storage.DocumentKey) == "" {
		return fmt.Errorf("DOCUMENT_KEY must not be empty")
	}

	if c.Storage.UndoDepth < 0 {
		return fmt.Errorf("UNDO_DEPTH must not be negative")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
