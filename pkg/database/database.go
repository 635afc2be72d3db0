// Package database selects and opens the single persistent store used for the
// lifetime of the process.
package database

import (
	"context"
	"fmt"

	"github.com/GrooVITy-Community/groovity-backend/internal/schema"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

type Config struct {
	// DatabaseURL selects PostgreSQL when non-empty.
	DatabaseURL string
	SQLitePath  string
}

// StartupError means the configured backend could not be brought up. The process
// must not serve traffic after receiving one.
type StartupError struct {
	Backend Backend
	Err     error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Handle is the bound backend: one connection pool and the schema variant that
// matches it.
type Handle struct {
	DB       *gorm.DB
	Variant  *schema.Variant
	Backend  Backend
	Location string
}

// Open binds PostgreSQL when a connection string is configured and SQLite
// otherwise. A configured but unreachable PostgreSQL is a StartupError; there is
// no fallback to SQLite.
func Open(ctx context.Context, cfg Config, log *zerolog.Logger) (*Handle, error) {
	if cfg.DatabaseURL != "" {
		db, location, err := NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, &StartupError{Backend: BackendPostgres, Err: err}
		}
		log.Info().Str("backend", string(BackendPostgres)).Str("location", location).Msg("connected to database")
		return &Handle{DB: db, Variant: schema.Postgres, Backend: BackendPostgres, Location: location}, nil
	}

	db, err := NewSQLiteDB(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, &StartupError{Backend: BackendSQLite, Err: err}
	}
	log.Info().Str("backend", string(BackendSQLite)).Str("location", cfg.SQLitePath).Msg("using embedded database")
	return &Handle{DB: db, Variant: schema.SQLite, Backend: BackendSQLite, Location: cfg.SQLitePath}, nil
}

// Migrate creates or updates the tables of the bound variant.
func (h *Handle) Migrate(ctx context.Context) error {
	if err := h.DB.WithContext(ctx).AutoMigrate(h.Variant.Models()...); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", h.Backend, err)
	}
	return nil
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}
