package provider

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// KeySource is the read side of the keystore used by provider clients.
type KeySource interface {
	GetProviderKey(ctx context.Context, provider keystoreDomain.Provider) (string, error)
}

// Credentials resolves the API key a provider client must use for its next request.
type Credentials struct {
	source KeySource
}

// NewCredentials creates a Credentials backed by the given key source.
func NewCredentials(source KeySource) *Credentials {
	return &Credentials{source: source}
}

// Resolve returns the stored key for provider.
//
// A missing or blank key yields ErrNoKeyConfigured. ErrKeystoreLocked and storage errors are
// returned unchanged so callers can prompt for the passphrase.
func (c *Credentials) Resolve(ctx context.Context, provider keystoreDomain.Provider) (string, error) {
	if !provider.Valid() {
		return "", keystoreDomain.ErrUnknownProvider
	}

	apiKey, err := c.source.GetProviderKey(ctx, provider)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Wrapf(ErrNoKeyConfigured, "provider %s", provider)
		}
		return "", err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", apperrors.Wrapf(ErrNoKeyConfigured, "provider %s", provider)
	}
	return apiKey, nil
}
