// SPDX-License-Identifier: Apache-2.0

// Package service contains the business logic of the payment core: the
// credential vault service, the payment requirements issuer, and the
// payment flow orchestrator.
package service

import (
	"context"

	"github.com/veridia/paycore/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// CredentialService is the vault's business surface. Write paths encrypt,
// read paths decrypt; raw ciphertext never crosses this boundary except
// inside the returned Credential's audit-free decrypted view.
type CredentialService interface {
	// Upsert stores the payload (encrypting any not-yet-encrypted
	// sensitive fields) as the user's single active credential of that
	// type and returns the stored record with a decrypted payload.
	Upsert(ctx context.Context, userID, credentialType string, payload models.CipheredPayload) (models.Credential, error)

	// Get returns the user's active credential with the payload decrypted.
	Get(ctx context.Context, userID, credentialType string) (models.Credential, error)

	// GetMasked returns the active credential with secret fields reduced
	// to a display mask. Safe to put on any outbound surface.
	GetMasked(ctx context.Context, userID, credentialType string) (models.Credential, error)

	// Delete soft-deletes all of the user's active credentials and
	// reports whether any existed.
	Delete(ctx context.Context, userID string) (bool, error)

	// GetPayerCredential returns the narrow decrypted view needed to sign
	// and pay. It fails closed: a present-but-unusable credential is
	// ErrCorruptCredential, never a partially filled result.
	GetPayerCredential(ctx context.Context, userID string) (models.PayerCredential, error)
}

// PaymentService executes the full payment pipeline for one user against
// one set of requirements.
type PaymentService interface {
	Execute(ctx context.Context, userID string, requirements models.PaymentRequirements) (models.PaymentResult, error)
}
