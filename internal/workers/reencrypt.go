// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"encoding/json"

	"github.com/veridia/paycore/internal/crypto"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/internal/store"
	"github.com/veridia/paycore/models"
)

// ReencryptWorker upgrades legacy plaintext vault rows to the current
// ciphertext format. It sweeps every ACTIVE credential once at startup and
// re-stores any row with a field that is not yet encrypted.
//
// The sweep is strictly best-effort: a row that cannot be parsed or
// re-stored is logged and skipped, never fatal. Rows written by current
// code are already encrypted and pass through untouched.
type ReencryptWorker struct {
	repository  store.CredentialRepository
	credentials service.CredentialService

	logger *logger.Logger
}

func NewReencryptWorker(repository store.CredentialRepository, credentials service.CredentialService, logger *logger.Logger) *ReencryptWorker {
	return &ReencryptWorker{
		repository:  repository,
		credentials: credentials,
		logger:      logger,
	}
}

// Run starts the sweep in its own goroutine so server startup is not
// delayed by vault size.
func (w *ReencryptWorker) Run() {
	ctx := w.logger.WithContext(context.Background())
	go w.sweep(ctx)
}

func (w *ReencryptWorker) sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	credentials, err := w.repository.ListActive(ctx)
	if err != nil {
		log.Err(err).
			Str("func", "ReencryptWorker.sweep").
			Msg("failed to list active credentials")
		return
	}

	var upgraded int
	for _, credential := range credentials {
		if !needsUpgrade(credential) {
			continue
		}

		// Upsert encrypts the still-plaintext fields and replaces the row
		// in place; already-encrypted fields pass through unchanged.
		if _, err := w.credentials.Upsert(ctx, credential.UserID, credential.CredentialType, credential.CredentialData); err != nil {
			log.Err(err).
				Str("func", "ReencryptWorker.sweep").
				Str("credential_id", credential.CredentialID).
				Str("credential_type", credential.CredentialType).
				Msg("failed to upgrade legacy credential")
			continue
		}
		upgraded++
	}

	log.Info().
		Str("func", "ReencryptWorker.sweep").
		Int("scanned", len(credentials)).
		Int("upgraded", upgraded).
		Msg("vault ciphertext sweep completed")
}

// needsUpgrade reports whether any part of the stored payload is still
// plaintext.
func needsUpgrade(credential models.Credential) bool {
	if credential.CredentialType != models.CredentialTypeHedera {
		return !crypto.IsEncrypted(string(credential.CredentialData))
	}

	var fields models.HederaCredential
	if err := json.Unmarshal([]byte(credential.CredentialData), &fields); err != nil {
		// unparseable rows are left for the read path to reject
		return false
	}

	for _, field := range []string{fields.OperatorAccountID, fields.PrivateKey, fields.Network} {
		if field != "" && !crypto.IsEncrypted(field) {
			return true
		}
	}
	return false
}
