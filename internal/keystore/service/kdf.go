package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// PBKDF2Deriver derives keystore keys with PBKDF2-HMAC-SHA256.
//
// The parameters match the browser client (WebCrypto PBKDF2, SHA-256, 256-bit AES key),
// so a passphrase unlocks the same ciphertexts on both sides.
type PBKDF2Deriver struct {
	iterations int
	saltSize   int
}

// NewPBKDF2Deriver creates a deriver that writes new metadata with the given work factor
// and salt size. Values below the keystore minimums are raised to the minimums.
func NewPBKDF2Deriver(iterations, saltSize int) *PBKDF2Deriver {
	if iterations < keystoreDomain.MinIterations {
		iterations = keystoreDomain.MinIterations
	}
	if saltSize < keystoreDomain.MinSaltSize {
		saltSize = keystoreDomain.MinSaltSize
	}
	return &PBKDF2Deriver{iterations: iterations, saltSize: saltSize}
}

// DeriveKey runs PBKDF2 over the passphrase with the metadata salt and iteration count.
func (d *PBKDF2Deriver) DeriveKey(passphrase string, meta *keystoreDomain.Metadata) ([]byte, error) {
	if meta == nil {
		return nil, keystoreDomain.ErrInvalidMetadata
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	secret := []byte(passphrase)
	defer keystoreDomain.Zero(secret)

	return pbkdf2.Key(secret, meta.Salt, meta.Iterations, keystoreDomain.KeySize, sha256.New), nil
}

// NewMetadata generates metadata with a fresh random salt.
func (d *PBKDF2Deriver) NewMetadata() (*keystoreDomain.Metadata, error) {
	salt := make([]byte, d.saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &keystoreDomain.Metadata{
		Version:    keystoreDomain.FormatVersion,
		Salt:       salt,
		Iterations: d.iterations,
	}, nil
}
