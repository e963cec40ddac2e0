package crypto

import "errors"

var (
	// ErrNoCipherKey is returned when the cipher is constructed without key
	// material. Surfaced at startup as a configuration failure.
	ErrNoCipherKey = errors.New("no cipher key material provided")

	// ErrDecryptionFailed is returned when a value matches the ciphertext
	// shape but cannot be decrypted: the authentication tag does not verify
	// or a segment is not valid hex. This is a data-integrity signal, never
	// downgraded to a silent plaintext fallback.
	ErrDecryptionFailed = errors.New("decryption failed")
)
