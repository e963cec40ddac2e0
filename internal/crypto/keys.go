// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// keyDerivationSalt domain-separates cipher keys stretched from passphrases
// from any other Argon2 use of the same material. It is deliberately fixed:
// the input is deployment configuration, not a per-user password, so a
// per-value salt would make the derived key irreproducible across restarts.
var keyDerivationSalt = []byte("paycore/credential-cipher/v1")

// Argon2id parameters per the OWASP recommendation (2024).
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024 // 64 MiB
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32 // 256 bits
)

// LoadKey resolves the configured cipher key material into a 32-byte AES
// key. A 64-character hex string decodes directly; any other non-empty
// string is treated as a passphrase and stretched with Argon2id. An empty
// string returns [ErrNoCipherKey].
func LoadKey(material string) ([]byte, error) {
	if material == "" {
		return nil, ErrNoCipherKey
	}

	if len(material) == 64 {
		if key, err := hex.DecodeString(material); err == nil {
			return key, nil
		}
	}

	return argon2.IDKey([]byte(material), keyDerivationSalt, argonTime, argonMemory, argonThreads, argonKeyLen), nil
}
