package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
)

// DB wraps the shared *sql.DB together with a driver-specific error
// classifier so repository code can detect unique-constraint collisions
// without importing driver packages.
type DB struct {
	*sql.DB
	errorClassifier ErrorClassifier
	logger          *logger.Logger
}

// ErrorClassifier distinguishes driver-specific error conditions the
// repositories care about.
type ErrorClassifier interface {
	// IsUniqueViolation reports whether err was caused by a unique-index
	// collision (here: the partial index guarding one ACTIVE credential
	// per user and type).
	IsUniqueViolation(err error) bool
}

// NewDB opens a database connection using the driver selected by the DSN:
// "postgres://" (or "postgresql://") URIs use pgx, anything else is treated
// as a SQLite file path for local/dev deployments.
func NewDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if isPostgresDSN(cfg.DSN) {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}

// Dialect returns the goose dialect matching the DSN's driver.
func Dialect(dsn string) string {
	if isPostgresDSN(dsn) {
		return "pgx"
	}
	return "sqlite3"
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
