package sealer

import (
	"context"
	"crypto/sha256"
	"encoding/base64"

	"github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreService "github.com/allisson/omnichat/internal/keystore/service"
)

// SecretSealer seals with an AEAD keyed by SHA-256 of the server secret.
//
// With AES-GCM the payload layout matches the browser-side keystore: a 12-byte IV and the
// ciphertext followed by the 16-byte tag, both standard base64.
type SecretSealer struct {
	cipher keystoreService.AEAD
}

// NewSecretSealer derives the sealing key from secret and builds the cipher for alg.
func NewSecretSealer(
	secret string,
	alg keystoreDomain.Algorithm,
	aeadManager keystoreService.AEADManager,
) (*SecretSealer, error) {
	if secret == "" {
		return nil, ErrSealerNotConfigured
	}

	sum := sha256.Sum256([]byte(secret))
	defer keystoreDomain.Zero(sum[:])

	cipher, err := aeadManager.CreateCipher(sum[:], alg)
	if err != nil {
		return nil, err
	}
	return &SecretSealer{cipher: cipher}, nil
}

// Seal implements Sealer.
func (s *SecretSealer) Seal(_ context.Context, plaintext string) (*Payload, error) {
	ciphertext, nonce, err := s.cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return nil, err
	}
	return &Payload{
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Open implements Sealer.
func (s *SecretSealer) Open(_ context.Context, payload *Payload) (string, error) {
	if payload == nil || payload.IV == "" {
		return "", ErrInvalidPayload
	}
	nonce, err := base64.StdEncoding.DecodeString(payload.IV)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPayload, "iv is not valid base64")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPayload, "ciphertext is not valid base64")
	}

	plaintext, err := s.cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return "", ErrOpenFailed
	}
	defer keystoreDomain.Zero(plaintext)
	return string(plaintext), nil
}

// Close implements Sealer.
func (s *SecretSealer) Close() error {
	return nil
}
