package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
)

// NewConnectSQLite opens a SQLite database at the file path given in the
// DSN. Used for local and development deployments of the vault; the
// production vault runs on PostgreSQL.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectSQLite").Str("path", cfg.DSN).Msg("connected to database successfully")

	return &DB{
		DB:              conn,
		logger:          log,
		errorClassifier: NewSQLiteErrorClassifier(),
	}, nil
}

// sqliteErrorClassifier classifies mattn/go-sqlite3 driver errors.
type sqliteErrorClassifier struct{}

// NewSQLiteErrorClassifier returns an [ErrorClassifier] for the sqlite3 driver.
func NewSQLiteErrorClassifier() ErrorClassifier {
	return &sqliteErrorClassifier{}
}

func (c *sqliteErrorClassifier) IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
