package domain

import (
	"github.com/allisson/omnichat/internal/errors"
)

// Keystore error definitions.
//
// Every error wraps one of the standard errors from internal/errors so handlers can map
// them to HTTP status codes without knowing about the keystore.
var (
	// ErrPassphraseTooShort indicates the passphrase is shorter than MinPassphraseLength.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrPassphraseTooShort = errors.Wrap(errors.ErrInvalidInput, "passphrase must be at least 8 characters")

	// ErrUnknownProvider indicates the provider name is not one of the supported providers.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnknownProvider = errors.Wrap(errors.ErrInvalidInput, "unknown provider")

	// ErrInvalidSnapshot indicates an import document failed parsing or validation.
	// Nothing is written when this error is returned.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidSnapshot = errors.Wrap(errors.ErrInvalidInput, "invalid keystore snapshot")

	// ErrInvalidMetadata indicates the persisted metadata cannot be used.
	ErrInvalidMetadata = errors.Wrap(errors.ErrInvalidInput, "invalid keystore metadata")

	// ErrInvalidStoredSecret indicates a persisted provider entry cannot be parsed.
	// Reads treat it as an absent key.
	ErrInvalidStoredSecret = errors.Wrap(errors.ErrInvalidInput, "invalid stored secret")

	// ErrKeystoreNotConfigured indicates no passphrase has been set yet.
	//
	// HTTP Status: 412 Precondition Failed
	ErrKeystoreNotConfigured = errors.Wrap(errors.ErrPreconditionFailed, "keystore passphrase not configured")

	// ErrKeystoreLocked indicates the operation needs the derived key but the keystore is locked.
	//
	// HTTP Status: 423 Locked
	ErrKeystoreLocked = errors.Wrap(errors.ErrLocked, "keystore is locked")

	// ErrProviderKeyNotFound indicates no usable key is stored for the provider.
	//
	// HTTP Status: 404 Not Found
	ErrProviderKeyNotFound = errors.Wrap(errors.ErrNotFound, "provider key not found")

	// ErrEntryNotFound is returned by entry repositories for missing entries.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "keystore entry not found")

	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an authenticated decryption failed.
	//
	// Wrong key and tampered ciphertext are not distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
