package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	key, err := LoadKey("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	c, err := NewFieldCipher(key)
	if err != nil {
		t.Fatalf("NewFieldCipher error: %v", err)
	}
	return c
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	secrets := []string{
		"302e020100300506032b657004220420deadbeef",
		"0.0.12345",
		"testnet",
		"",
		"пароль с юникодом",
	}

	for _, s := range secrets {
		enc, err := c.Encrypt(s)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", s, err)
		}
		if !IsEncrypted(enc) {
			t.Fatalf("Encrypt(%q) = %q, does not match ciphertext shape", s, enc)
		}

		dec, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if dec != s {
			t.Fatalf("round trip = %q, want %q", dec, s)
		}
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	c := newTestCipher(t)

	e1, err := c.Encrypt("same secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	e2, err := c.Encrypt("same secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if e1 == e2 {
		t.Fatalf("expected distinct ciphertexts for identical plaintexts")
	}
}

func TestDecrypt_LegacyPlaintextPassthrough(t *testing.T) {
	c := newTestCipher(t)

	legacy := []string{
		"plain secret key",
		"0.0.999",
		"not:hex:at all",
		"ab:cd:ef", // hex groups of the wrong length
		"deadbeef",
		"",
	}

	for _, p := range legacy {
		got, err := c.Decrypt(p)
		if err != nil {
			t.Fatalf("Decrypt(%q) error: %v", p, err)
		}
		if got != p {
			t.Fatalf("Decrypt(%q) = %q, want passthrough", p, got)
		}
	}
}

func TestDecrypt_TamperedAuthTag(t *testing.T) {
	c := newTestCipher(t)

	enc, err := c.Encrypt("payer private key")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	parts := strings.SplitN(enc, ":", 3)
	// Flip every hex digit of the auth tag in turn: each mutation must be a
	// hard decryption error, never garbled plaintext.
	for i := 0; i < len(parts[1]); i++ {
		tampered := []byte(parts[1])
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}

		mutated := parts[0] + ":" + string(tampered) + ":" + parts[2]
		_, err := c.Decrypt(mutated)
		if !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("tampered tag at %d: err = %v, want ErrDecryptionFailed", i, err)
		}
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	c := newTestCipher(t)

	enc, err := c.Encrypt("payer private key")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	parts := strings.SplitN(enc, ":", 3)
	tampered := []byte(parts[2])
	if tampered[0] == 'f' {
		tampered[0] = '0'
	} else {
		tampered[0] = 'f'
	}

	_, err = c.Decrypt(parts[0] + ":" + parts[1] + ":" + string(tampered))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_NonHexCiphertextSegment(t *testing.T) {
	c := newTestCipher(t)

	enc, err := c.Encrypt("payer private key")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	// A well-formed IV and tag with a non-hex byte smuggled into the
	// ciphertext segment is corruption, not legacy plaintext.
	mutated := enc[:len(enc)-1] + "z"
	got, err := c.Decrypt(mutated)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt(%q) = (%q, %v), want ErrDecryptionFailed", mutated, got, err)
	}
}

func TestLoadKey_HexDecodesDirectly(t *testing.T) {
	hexKey := "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	key, err := LoadKey(hexKey)
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}
	if key[0] != 0x00 || key[1] != 0x11 {
		t.Fatalf("hex key was not decoded directly")
	}
}

func TestLoadKey_PassphraseIsStretchedDeterministically(t *testing.T) {
	k1, err := LoadKey("correct horse battery staple")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	k2, err := LoadKey("correct horse battery staple")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected deterministic derivation for the same passphrase")
	}

	k3, err := LoadKey("a different passphrase")
	if err != nil {
		t.Fatalf("LoadKey error: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Fatalf("expected different keys for different passphrases")
	}
}

func TestLoadKey_EmptyIsConfigurationError(t *testing.T) {
	if _, err := LoadKey(""); !errors.Is(err, ErrNoCipherKey) {
		t.Fatalf("err = %v, want ErrNoCipherKey", err)
	}
}
