// SPDX-License-Identifier: Apache-2.0

// Package crypto implements the at-rest field cipher for vault credentials.
//
// Values are encrypted with AES-256-GCM into the self-describing form
//
//	iv:authTag:ciphertext
//
// where iv (12 bytes) and authTag (16 bytes) are fixed-length hex and the
// ciphertext is hex. The shape itself is the only signal that a
// stored value is encrypted: Decrypt passes anything that does not match
// the shape through unchanged, which is what keeps credential rows written
// before encryption was introduced readable.
//
// The key is process-wide configuration loaded once at startup. There is no
// key versioning: rotating the key invalidates every previously encrypted
// value. This is a known limitation, not a hidden bug.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
)

const (
	ivSize  = 12 // AES-GCM nonce, bytes
	tagSize = 16 // GCM authentication tag, bytes
)

// ciphertextPattern matches the canonical encrypted form: 24 hex chars of
// IV, 32 hex chars of auth tag, and a non-empty ciphertext segment. The
// last segment is deliberately not constrained to hex: a value that carries
// a well-formed IV and tag but a mangled ciphertext must fail decryption,
// not slip through as legacy plaintext.
var ciphertextPattern = regexp.MustCompile(
	fmt.Sprintf(`^[0-9a-fA-F]{%d}:[0-9a-fA-F]{%d}:.+$`, ivSize*2, tagSize*2),
)

// FieldCipher encrypts and decrypts individual secret strings. It is safe
// for concurrent use; the underlying AEAD is stateless between calls.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher constructs a FieldCipher from 32-byte key material,
// typically obtained via [LoadKey]. Returns an error if the key has the
// wrong length or the AEAD cannot be built.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) == 0 {
		return nil, ErrNoCipherKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// IsEncrypted reports whether text matches the canonical ciphertext shape.
// This check is the sole mechanism distinguishing encrypted values from
// legacy plaintext; there is no separate version flag.
func IsEncrypted(text string) bool {
	return ciphertextPattern.MatchString(text)
}

// Encrypt seals plaintext into the iv:authTag:ciphertext form. A fresh
// random IV is generated on every call; identical plaintexts never produce
// identical output.
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	// Seal appends the auth tag to the ciphertext; split it back out so the
	// stored form carries the tag as its own segment.
	sealed := f.aead.Seal(nil, iv, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt opens a value produced by Encrypt. A value that does not match
// the ciphertext shape is returned unchanged (legacy plaintext tolerance).
// A value that matches the shape but fails authentication returns
// [ErrDecryptionFailed]; a tampered ciphertext is never returned as garbled
// plaintext.
func (f *FieldCipher) Decrypt(text string) (string, error) {
	if !IsEncrypted(text) {
		return text, nil
	}

	var iv, tag, ct []byte
	var err error
	segments := [3]string{text[:ivSize*2], text[ivSize*2+1 : ivSize*2+1+tagSize*2], text[ivSize*2+tagSize*2+2:]}
	if iv, err = hex.DecodeString(segments[0]); err != nil {
		return "", fmt.Errorf("%w: decode iv: %w", ErrDecryptionFailed, err)
	}
	if tag, err = hex.DecodeString(segments[1]); err != nil {
		return "", fmt.Errorf("%w: decode auth tag: %w", ErrDecryptionFailed, err)
	}
	if ct, err = hex.DecodeString(segments[2]); err != nil {
		return "", fmt.Errorf("%w: decode ciphertext: %w", ErrDecryptionFailed, err)
	}

	plaintext, err := f.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
