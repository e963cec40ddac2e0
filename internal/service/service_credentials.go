// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/veridia/paycore/internal/crypto"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/store"
	"github.com/veridia/paycore/internal/utils"
	"github.com/veridia/paycore/models"
)

type credentialService struct {
	repository store.CredentialRepository
	cipher     *crypto.FieldCipher
	uuid       *utils.UUIDGenerator

	// userLocks serializes Upsert/Get interleavings per user so a reader
	// never observes a half-written payload view.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex

	logger *logger.Logger
}

// NewCredentialService constructs the vault service over a credential
// repository and the process-wide field cipher.
func NewCredentialService(repository store.CredentialRepository, cipher *crypto.FieldCipher, log *logger.Logger) CredentialService {
	return &credentialService{
		repository: repository,
		cipher:     cipher,
		uuid:       utils.NewUUIDGenerator(),
		userLocks:  make(map[string]*sync.Mutex),
		logger:     log,
	}
}

func (s *credentialService) lockUser(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// Upsert implements [CredentialService]. Fields already in ciphertext
// shape are stored as-is, so a client re-submitting a previously read
// encrypted payload does not get double-encrypted.
func (s *credentialService) Upsert(ctx context.Context, userID, credentialType string, payload models.CipheredPayload) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if userID == "" || credentialType == "" || strings.TrimSpace(string(payload)) == "" {
		return models.Credential{}, fmt.Errorf("%w: user id, type, and payload are required", ErrInvalidCredentialData)
	}

	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	encrypted, err := s.encryptPayload(credentialType, payload)
	if err != nil {
		log.Err(err).
			Str("func", "credentialService.Upsert").
			Str("user_id", userID).
			Str("credential_type", credentialType).
			Msg("failed to encrypt credential payload")
		return models.Credential{}, err
	}

	stored, err := s.repository.Upsert(ctx, models.Credential{
		CredentialID:   s.uuid.Generate(),
		UserID:         userID,
		CredentialType: credentialType,
		CredentialData: encrypted,
		Status:         models.CredentialActive,
		UpdatedBy:      userID,
	})
	if err != nil {
		return models.Credential{}, err
	}

	// hand back the caller's view, not the stored ciphertext
	decrypted, err := s.decryptPayload(stored.CredentialType, stored.CredentialData)
	if err != nil {
		return models.Credential{}, err
	}
	stored.CredentialData = decrypted

	return stored, nil
}

// Get implements [CredentialService].
func (s *credentialService) Get(ctx context.Context, userID, credentialType string) (models.Credential, error) {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.getDecrypted(ctx, userID, credentialType)
}

// GetMasked implements [CredentialService].
func (s *credentialService) GetMasked(ctx context.Context, userID, credentialType string) (models.Credential, error) {
	cred, err := s.Get(ctx, userID, credentialType)
	if err != nil {
		return models.Credential{}, err
	}

	if cred.CredentialType != models.CredentialTypeHedera {
		// unknown payload schemas are masked wholesale
		cred.CredentialData = "****"
		return cred, nil
	}

	var payload models.HederaCredential
	if err = json.Unmarshal([]byte(cred.CredentialData), &payload); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}

	masked, err := json.Marshal(payload.Masked())
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}
	cred.CredentialData = models.CipheredPayload(masked)

	return cred, nil
}

// Delete implements [CredentialService].
func (s *credentialService) Delete(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", ErrInvalidCredentialData)
	}

	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	existed, err := s.repository.SoftDelete(ctx, userID, userID)
	if err != nil {
		return false, err
	}

	return existed, nil
}

// GetPayerCredential implements [CredentialService].
func (s *credentialService) GetPayerCredential(ctx context.Context, userID string) (models.PayerCredential, error) {
	log := logger.FromContext(ctx)

	cred, err := s.Get(ctx, userID, models.CredentialTypeHedera)
	if err != nil {
		return models.PayerCredential{}, err
	}

	var payload models.HederaCredential
	if err = json.Unmarshal([]byte(cred.CredentialData), &payload); err != nil {
		return models.PayerCredential{}, fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}

	network, err := models.NormalizeNetwork(payload.Network)
	if err != nil {
		return models.PayerCredential{}, fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}
	if !models.ValidAccountID(payload.OperatorAccountID) || payload.PrivateKey == "" {
		log.Warn().
			Str("func", "credentialService.GetPayerCredential").
			Str("user_id", userID).
			Msg("stored payer credential is unusable")
		return models.PayerCredential{}, fmt.Errorf("%w: operator account or key unusable", ErrCorruptCredential)
	}

	return models.PayerCredential{
		OperatorAccountID: payload.OperatorAccountID,
		PrivateKey:        payload.PrivateKey,
		Network:           network,
	}, nil
}

func (s *credentialService) getDecrypted(ctx context.Context, userID, credentialType string) (models.Credential, error) {
	cred, err := s.repository.GetActive(ctx, userID, credentialType)
	if errors.Is(err, store.ErrCredentialNotFound) {
		return models.Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return models.Credential{}, err
	}

	decrypted, err := s.decryptPayload(cred.CredentialType, cred.CredentialData)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "credentialService.getDecrypted").
			Str("user_id", userID).
			Str("credential_type", credentialType).
			Msg("failed to decrypt credential payload")
		return models.Credential{}, err
	}
	cred.CredentialData = decrypted

	return cred, nil
}

// encryptPayload encrypts sensitive content per credential type: hedera
// payloads field by field, anything else as one opaque unit.
func (s *credentialService) encryptPayload(credentialType string, payload models.CipheredPayload) (models.CipheredPayload, error) {
	if credentialType != models.CredentialTypeHedera {
		if crypto.IsEncrypted(string(payload)) {
			return payload, nil
		}
		sealed, err := s.cipher.Encrypt(string(payload))
		if err != nil {
			return "", err
		}
		return models.CipheredPayload(sealed), nil
	}

	var fields models.HederaCredential
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredentialData, err)
	}
	if fields.OperatorAccountID == "" || fields.PrivateKey == "" {
		return "", fmt.Errorf("%w: operator account and private key are required", ErrInvalidCredentialData)
	}

	var err error
	if fields.OperatorAccountID, err = s.encryptField(fields.OperatorAccountID); err != nil {
		return "", err
	}
	if fields.PrivateKey, err = s.encryptField(fields.PrivateKey); err != nil {
		return "", err
	}
	if fields.Network != "" {
		if fields.Network, err = s.encryptField(fields.Network); err != nil {
			return "", err
		}
	}

	sealed, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return models.CipheredPayload(sealed), nil
}

func (s *credentialService) decryptPayload(credentialType string, payload models.CipheredPayload) (models.CipheredPayload, error) {
	if credentialType != models.CredentialTypeHedera {
		plain, err := s.cipher.Decrypt(string(payload))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrCorruptCredential, err)
		}
		return models.CipheredPayload(plain), nil
	}

	var fields models.HederaCredential
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}

	var err error
	if fields.OperatorAccountID, err = s.decryptField(fields.OperatorAccountID); err != nil {
		return "", err
	}
	if fields.PrivateKey, err = s.decryptField(fields.PrivateKey); err != nil {
		return "", err
	}
	if fields.Network, err = s.decryptField(fields.Network); err != nil {
		return "", err
	}

	plain, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}
	return models.CipheredPayload(plain), nil
}

func (s *credentialService) encryptField(value string) (string, error) {
	if value == "" || crypto.IsEncrypted(value) {
		return value, nil
	}
	return s.cipher.Encrypt(value)
}

func (s *credentialService) decryptField(value string) (string, error) {
	plain, err := s.cipher.Decrypt(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptCredential, err)
	}
	return plain, nil
}
