// Package service provides the cryptographic primitives of the keystore: passphrase key
// derivation, AEAD ciphers and the legacy XOR scheme.
package service

import (
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg keystoreDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives the keystore key from a passphrase and the stored metadata.
type KeyDeriver interface {
	// DeriveKey returns a KeySize byte key. Callers own the slice and must zero it.
	DeriveKey(passphrase string, meta *keystoreDomain.Metadata) ([]byte, error)

	// NewMetadata generates fresh metadata with a random salt.
	NewMetadata() (*keystoreDomain.Metadata, error)
}

// LegacyCipher implements the pre-passphrase XOR scheme.
type LegacyCipher interface {
	// GenerateKey returns new hex encoded key material.
	GenerateKey() (string, error)

	// Encrypt obfuscates plaintext with the key and returns standard base64.
	Encrypt(plaintext, key string) string

	// Decrypt reverses Encrypt.
	Decrypt(data, key string) (string, error)
}
