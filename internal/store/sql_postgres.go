package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
)

// NewConnectPostgres opens and pings a PostgreSQL connection through the
// pgx stdlib driver and returns it wrapped in [*DB] with a Postgres error
// classifier attached.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return &DB{
		DB:              conn,
		logger:          log,
		errorClassifier: NewPostgresErrorClassifier(),
	}, nil
}

// postgresErrorClassifier classifies pgx driver errors by SQLSTATE code.
type postgresErrorClassifier struct{}

// NewPostgresErrorClassifier returns an [ErrorClassifier] for the pgx driver.
func NewPostgresErrorClassifier() ErrorClassifier {
	return &postgresErrorClassifier{}
}

func (c *postgresErrorClassifier) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
