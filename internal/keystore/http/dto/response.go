package dto

import (
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// StatusResponse describes the keystore state.
type StatusResponse struct {
	State      string          `json:"state"`
	Configured bool            `json:"configured"`
	Locked     bool            `json:"locked"`
	Providers  map[string]bool `json:"providers"`
}

// MapStatusToResponse converts a domain status to an API response.
func MapStatusToResponse(status *keystoreDomain.Status) StatusResponse {
	providers := make(map[string]bool, len(status.Providers))
	for provider, hasKey := range status.Providers {
		providers[provider.String()] = hasKey
	}
	return StatusResponse{
		State:      string(status.State),
		Configured: status.Configured,
		Locked:     status.Locked,
		Providers:  providers,
	}
}

// ProviderKeyStatusResponse reports whether a provider key is stored.
type ProviderKeyStatusResponse struct {
	Provider string `json:"provider"`
	HasKey   bool   `json:"has_key"`
}

// ProviderKeyResponse carries a decrypted provider key.
// SECURITY: contains plaintext, must be transmitted over HTTPS in production.
type ProviderKeyResponse struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// VerifyKeyResponse is the result of a provider key check.
type VerifyKeyResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
