package store

import (
	"context"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/migrations"
)

// Storages aggregates every repository backed by the shared database
// connection.
type Storages struct {
	CredentialRepository CredentialRepository
}

// NewStorages opens the vault database, applies pending migrations, and
// wires the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB, Dialect(cfg.DB.DSN)); err != nil {
		return nil, err
	}

	return &Storages{
		CredentialRepository: NewCredentialRepository(db, log),
	}, nil
}
