// Package provider holds the pieces of the AI provider integrations that touch credentials:
// resolving the key a provider client should use and checking a key against the provider.
package provider

import (
	"github.com/allisson/omnichat/internal/errors"
)

var (
	// ErrNoKeyConfigured indicates no API key is available for the provider.
	// Provider clients surface it instead of sending a request with an empty credential.
	//
	// HTTP Status: 404 Not Found
	ErrNoKeyConfigured = errors.Wrap(errors.ErrNotFound, "no api key configured for provider")

	// ErrEmptyAPIKey indicates a blank candidate key was passed for verification.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrEmptyAPIKey = errors.Wrap(errors.ErrInvalidInput, "missing api key")

	// ErrKeyRejected indicates the provider answered the verification request with a
	// non-success status.
	ErrKeyRejected = errors.Wrap(errors.ErrUnauthorized, "api key rejected by provider")
)
