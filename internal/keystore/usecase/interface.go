// Package usecase defines the interfaces and implementation of the credential keystore.
// The use case orchestrates the entry repository, the session cache and the crypto
// services to implement the keystore state machine:
//
//	Unconfigured --SetPassphrase--> Unlocked --Lock--> Locked --Unlock--> Unlocked
//
// Unconfigured means no metadata is stored. Locked and Unlocked differ only by whether
// the derived key is held in memory.
package usecase

import (
	"context"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// EntryRepository defines durable storage of keystore entries.
type EntryRepository interface {
	// Get returns keystoreDomain.ErrEntryNotFound when no entry exists.
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// SessionCache holds decrypted provider keys while the keystore is unlocked.
type SessionCache interface {
	Get(provider keystoreDomain.Provider) (string, bool)
	Set(provider keystoreDomain.Provider, plaintext string)
	Delete(provider keystoreDomain.Provider)
	Clear()
}

// KeystoreUseCase defines the credential keystore operations.
type KeystoreUseCase interface {
	// SetPassphrase configures the keystore, or changes the passphrase when it is unlocked.
	// Returns ErrPassphraseTooShort or ErrKeystoreLocked.
	SetPassphrase(ctx context.Context, passphrase string) error

	// Unlock derives the key from passphrase and verifies it against every stored secret.
	// A wrong passphrase returns false with a nil error.
	Unlock(ctx context.Context, passphrase string) (bool, error)

	// Lock discards the derived key and every cached plaintext. It is idempotent.
	Lock(ctx context.Context) error

	IsPassphraseConfigured(ctx context.Context) (bool, error)

	// IsLocked is false for an unconfigured keystore.
	IsLocked(ctx context.Context) (bool, error)

	Status(ctx context.Context) (*keystoreDomain.Status, error)

	// SetProviderKey stores the trimmed key. An empty key clears the provider.
	SetProviderKey(ctx context.Context, provider keystoreDomain.Provider, apiKey string) error

	// GetProviderKey returns ErrProviderKeyNotFound for absent or unreadable keys and
	// ErrKeystoreLocked when the key exists but the keystore is locked.
	GetProviderKey(ctx context.Context, provider keystoreDomain.Provider) (string, error)

	ClearProviderKey(ctx context.Context, provider keystoreDomain.Provider) error

	// HasProviderKey is false whenever the keystore is locked.
	HasProviderKey(ctx context.Context, provider keystoreDomain.Provider) (bool, error)

	Export(ctx context.Context) (*keystoreDomain.Snapshot, error)

	// Import replaces metadata and every provider entry with the document contents and
	// leaves the keystore locked. Invalid documents are rejected before any write.
	Import(ctx context.Context, document []byte) error

	// Close locks the keystore. The instance must not be used afterwards.
	Close() error
}
