// Package mocks provides mock implementations of provider collaborators for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// MockVerifier is a mock implementation of provider.Verifier for testing.
type MockVerifier struct {
	mock.Mock
}

// Verify mocks the Verify method.
func (m *MockVerifier) Verify(ctx context.Context, provider keystoreDomain.Provider, apiKey string) error {
	args := m.Called(ctx, provider, apiKey)
	return args.Error(0)
}
