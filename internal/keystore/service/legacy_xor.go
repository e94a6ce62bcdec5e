package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// errEmptyLegacyKey is returned when legacy data exists but no key material does.
var errEmptyLegacyKey = errors.New("legacy key material is empty")

// LegacyXORCipher reproduces the obfuscation used before a passphrase is configured.
//
// The plaintext bytes are XORed with the characters of a hex key stored in clear next to
// the data. It offers no confidentiality against anyone who can read the store and exists
// only so the app works before the passphrase is set and old entries can be migrated.
type LegacyXORCipher struct{}

// NewLegacyXORCipher creates a LegacyXORCipher.
func NewLegacyXORCipher() *LegacyXORCipher {
	return &LegacyXORCipher{}
}

// GenerateKey returns 32 random bytes as lowercase hex.
func (c *LegacyXORCipher) GenerateKey() (string, error) {
	b := make([]byte, keystoreDomain.LegacyKeySize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate legacy key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Encrypt XORs plaintext with the key characters and returns standard base64.
func (c *LegacyXORCipher) Encrypt(plaintext, key string) string {
	return base64.StdEncoding.EncodeToString(xorWithKey([]byte(plaintext), key))
}

// Decrypt reverses Encrypt.
func (c *LegacyXORCipher) Decrypt(data, key string) (string, error) {
	if key == "" {
		return "", errEmptyLegacyKey
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", keystoreDomain.ErrDecryptionFailed, err)
	}
	out := xorWithKey(raw, key)
	return string(out), nil
}

func xorWithKey(data []byte, key string) []byte {
	if key == "" {
		return data
	}
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}
