// Package database opens the admin server's SQLite store and applies its schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/neuromation/neuro-admin/server/internal/metrics"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS clusters (
    name TEXT PRIMARY KEY,
    status TEXT NOT NULL DEFAULT 'blank',
    cloud_provider TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cluster_users (
    cluster_name TEXT NOT NULL REFERENCES clusters(name) ON DELETE CASCADE,
    user_name TEXT NOT NULL,
    role TEXT NOT NULL,
    credits TEXT,
    gpu_run_time_minutes INTEGER,
    non_gpu_run_time_minutes INTEGER,
    running_jobs INTEGER,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (cluster_name, user_name)
);

CREATE TABLE IF NOT EXISTS resource_presets (
    cluster_name TEXT NOT NULL REFERENCES clusters(name) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    spec TEXT NOT NULL,
    PRIMARY KEY (cluster_name, name)
);
`

// Open connects to the database at path and migrates it.
// MemoryPath yields a single-connection in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	if path == MemoryPath {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database connection established", zap.String("path", path))
	return db, nil
}

// Migrate creates missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Observe records the duration and outcome of a query named op.
//
//	defer database.Observe("list_clusters", time.Now(), &err)
func Observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.ObserveQuery(op, time.Since(start), err)
}

// RecordStats publishes connection pool gauges.
func RecordStats(db *sql.DB) {
	metrics.SetPoolStats(db.Stats())
}

// IsUniqueConstraint reports whether err is a SQLite uniqueness violation.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
