// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/omnichat/internal/validation"
)

// PassphraseRequest carries a passphrase for setup, change or unlock.
type PassphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

// Validate checks the passphrase is present and long enough.
func (r *PassphraseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Passphrase,
			validation.Required,
			customValidation.Passphrase,
		),
	)
}

// UnlockRequest carries the passphrase for an unlock attempt. Length is not checked so that
// short guesses are reported as wrong passphrases rather than validation errors.
type UnlockRequest struct {
	Passphrase string `json:"passphrase"`
}

// Validate checks the passphrase is present.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Passphrase, validation.Required),
	)
}

// SetProviderKeyRequest stores a provider key. An empty APIKey clears the stored key.
type SetProviderKeyRequest struct {
	APIKey string `json:"api_key"`
}

// Validate checks the api key has no more than 4096 characters.
func (r *SetProviderKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.APIKey, validation.Length(0, 4096)),
	)
}

// VerifyKeyRequest asks for a key to be checked against its provider. When APIKey is
// omitted the stored key is used.
type VerifyKeyRequest struct {
	APIKey string `json:"api_key"`
}

// Validate checks the api key, when present, is not blank.
func (r *VerifyKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.APIKey,
			validation.When(r.APIKey != "", customValidation.NotBlank),
			validation.Length(0, 4096),
		),
	)
}
