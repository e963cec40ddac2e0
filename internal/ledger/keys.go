package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"
)

// ed25519DERPrefix is the PKCS#8 wrapping that Hedera tooling emits around
// a raw ed25519 seed. Keys exported that way are hex strings of 48 bytes:
// this 16-byte prefix followed by the 32-byte seed.
var ed25519DERPrefix = []byte{
	0x30, 0x2e, 0x02, 0x01, 0x00, 0x30, 0x05, 0x06,
	0x03, 0x2b, 0x65, 0x70, 0x04, 0x22, 0x04, 0x20,
}

var errBadKeyLength = errors.New("ed25519 key must be a 32-byte seed, 64-byte key, or DER-wrapped seed")

// ParsePrivateKey decodes an ed25519 private key from its hex string form.
// Accepted shapes: raw 32-byte seed, full 64-byte private key, or a
// DER/PKCS#8-wrapped seed. A leading "0x" is tolerated.
func ParsePrivateKey(s string) (ed25519.PrivateKey, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if s == "" {
		return nil, errors.New("empty key")
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}

	if len(raw) == len(ed25519DERPrefix)+ed25519.SeedSize && hasDERPrefix(raw) {
		raw = raw[len(ed25519DERPrefix):]
	}

	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, errBadKeyLength
	}
}

func hasDERPrefix(raw []byte) bool {
	for i, b := range ed25519DERPrefix {
		if raw[i] != b {
			return false
		}
	}
	return true
}
