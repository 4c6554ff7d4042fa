// Package postgres opens the database/sql handle shared by the record stores
// and the runtime settings store, and creates their tables.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"neuroaccess/internal/platform/config"
)

// Drivers registered with database/sql.
const (
	DriverPGX = "pgx"
	DriverPQ  = "postgres"
)

// Open connects with the configured driver and pings the server.
// Returns nil if the DSN is empty (Postgres not configured).
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, nil
	}
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPGX
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS {{logins}} (
    user_name       TEXT        NOT NULL,
    remote_endpoint TEXT,
    logged_in_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS {{logins_idx}} ON {{logins}} (user_name, logged_in_at DESC);

CREATE TABLE IF NOT EXISTS {{accounts}} (
    user_name  TEXT PRIMARY KEY,
    email      TEXT        NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runtime_settings (
    key        TEXT PRIMARY KEY,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_events (
    id             UUID PRIMARY KEY,
    category       TEXT        NOT NULL,
    timestamp      TIMESTAMPTZ NOT NULL,
    action         TEXT        NOT NULL,
    application_id TEXT        NOT NULL DEFAULT '',
    subject        TEXT        NOT NULL DEFAULT '',
    decision       TEXT        NOT NULL DEFAULT '',
    reason         TEXT        NOT NULL DEFAULT '',
    request_id     TEXT        NOT NULL DEFAULT '',
    severity       TEXT        NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject, timestamp);
`

// Migrate creates the login, account, runtime settings and audit tables if they do
// not already exist. Table names come from configuration and are quoted.
func Migrate(ctx context.Context, db *sql.DB, loginTable, accountTable string) error {
	ddl := strings.NewReplacer(
		"{{logins}}", pq.QuoteIdentifier(loginTable),
		"{{logins_idx}}", pq.QuoteIdentifier(loginTable+"_user_name_idx"),
		"{{accounts}}", pq.QuoteIdentifier(accountTable),
	).Replace(schema)

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate postgres schema: %w", err)
	}
	return nil
}
