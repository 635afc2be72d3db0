package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens the embedded store in write-ahead-log mode with foreign keys
// enforced, and refuses to continue if WAL could not be enabled.
func NewSQLiteDB(ctx context.Context, path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := requireWAL(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// requireWAL checks the journal mode and closes db when it is not WAL.
func requireWAL(ctx context.Context, db *gorm.DB) error {
	var mode string
	err := db.WithContext(ctx).Raw("PRAGMA journal_mode").Scan(&mode).Error
	switch {
	case err != nil:
		err = fmt.Errorf("failed to read journal mode: %w", err)
	case !strings.EqualFold(mode, "wal"):
		err = fmt.Errorf("journal mode is %q, want wal", mode)
	default:
		return nil
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}
