package models

import "time"

// CredentialStatus is the lifecycle state of a stored credential. Deletion
// is always a transition to INACTIVE, never a row removal.
type CredentialStatus string

const (
	CredentialActive   CredentialStatus = "ACTIVE"
	CredentialInactive CredentialStatus = "INACTIVE"
)

// CredentialTypeHedera is the only credential type with a defined payload
// schema today. Credentials of any other type are stored with the entire
// serialized payload treated as one ciphertext unit.
const CredentialTypeHedera = "hedera"

// CipheredPayload is a string holding either a JSON document (whose
// string-valued fields may individually be ciphertext) or, for unknown
// credential types, one opaque ciphertext unit. The database never
// interprets its content.
type CipheredPayload string

// Credential is a per-user, per-type encrypted vault record. At most one
// ACTIVE credential exists per (UserID, CredentialType).
type Credential struct {
	CredentialID   string           `json:"credentialId"`
	UserID         string           `json:"userId"`
	CredentialType string           `json:"credentialType"`
	CredentialData CipheredPayload  `json:"credentialData"`
	Status         CredentialStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedBy string    `json:"updatedBy"`
}

// HederaCredential is the payload shape of a "hedera" credential. Each
// string field is encrypted individually at rest so that non-secret fields
// like Network stay small and independently readable.
type HederaCredential struct {
	OperatorAccountID string `json:"operatorAccountId"`
	PrivateKey        string `json:"privateKey"`
	Network           string `json:"network"`
}

// Masked returns a display-safe copy of the payload: the private key is
// reduced to a mask plus its last four characters.
func (h HederaCredential) Masked() HederaCredential {
	masked := h
	if n := len(masked.PrivateKey); n > 4 {
		masked.PrivateKey = "****" + masked.PrivateKey[n-4:]
	} else if n > 0 {
		masked.PrivateKey = "****"
	}
	return masked
}

// PayerCredential is the narrow decrypted view handed to payment-signing
// code paths. Network is always one of the canonical tokens.
type PayerCredential struct {
	OperatorAccountID string  `json:"operatorAccountId"`
	PrivateKey        string  `json:"privateKey"`
	Network           Network `json:"network"`
}
