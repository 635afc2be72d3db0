package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB connects to the networked store and verifies it answers before
// returning. Connections are always encrypted.
func NewPostgresDB(ctx context.Context, dsn string) (*gorm.DB, string, error) {
	dsn, location := requireTLS(dsn)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, location, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, location, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, location, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, location, nil
}

// requireTLS adds sslmode=require when the connection string does not choose a
// mode itself. It also returns a password-free form of the DSN for logging.
func requireTLS(dsn string) (string, string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn, "postgres"
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", "require")
			u.RawQuery = q.Encode()
		}
		return u.String(), u.Redacted()
	}

	if !strings.Contains(dsn, "sslmode=") {
		dsn = strings.TrimSpace(dsn) + " sslmode=require"
	}
	var safe []string
	for _, kv := range strings.Fields(dsn) {
		if strings.HasPrefix(kv, "password=") {
			kv = "password=xxxxx"
		}
		safe = append(safe, kv)
	}
	return dsn, strings.Join(safe, " ")
}
