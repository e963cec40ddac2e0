package store

import (
	"context"

	"github.com/veridia/paycore/models"
)

// CredentialRepository is the persistence surface of the credential vault.
// Implementations guarantee the at-most-one-ACTIVE-row invariant per
// (user_id, credential_type) and never remove rows: deletion is a status
// transition.
type CredentialRepository interface {
	// GetActive returns the single ACTIVE credential for the pair, or
	// [ErrCredentialNotFound].
	GetActive(ctx context.Context, userID, credentialType string) (models.Credential, error)

	// Upsert updates the existing ACTIVE row for the credential's
	// (user_id, credential_type) pair, or inserts a new one when none
	// exists. Concurrent upserts converge to a single active row
	// (last-writer-wins at the row level). Returns the stored credential
	// with identity and audit fields populated.
	Upsert(ctx context.Context, credential models.Credential) (models.Credential, error)

	// SoftDelete flips every ACTIVE credential of the user to INACTIVE and
	// reports whether any row existed.
	SoftDelete(ctx context.Context, userID, actor string) (bool, error)

	// ListActive returns every ACTIVE credential. Used by the startup
	// re-encryption sweep.
	ListActive(ctx context.Context) ([]models.Credential, error)
}
