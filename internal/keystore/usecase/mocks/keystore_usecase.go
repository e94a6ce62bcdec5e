// Package mocks provides mock implementations of the keystore use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// MockKeystoreUseCase is a mock implementation of KeystoreUseCase for testing.
type MockKeystoreUseCase struct {
	mock.Mock
}

// SetPassphrase mocks the SetPassphrase method.
func (m *MockKeystoreUseCase) SetPassphrase(ctx context.Context, passphrase string) error {
	args := m.Called(ctx, passphrase)
	return args.Error(0)
}

// Unlock mocks the Unlock method.
func (m *MockKeystoreUseCase) Unlock(ctx context.Context, passphrase string) (bool, error) {
	args := m.Called(ctx, passphrase)
	return args.Bool(0), args.Error(1)
}

// Lock mocks the Lock method.
func (m *MockKeystoreUseCase) Lock(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// IsPassphraseConfigured mocks the IsPassphraseConfigured method.
func (m *MockKeystoreUseCase) IsPassphraseConfigured(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// IsLocked mocks the IsLocked method.
func (m *MockKeystoreUseCase) IsLocked(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// Status mocks the Status method.
func (m *MockKeystoreUseCase) Status(ctx context.Context) (*keystoreDomain.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keystoreDomain.Status), args.Error(1)
}

// SetProviderKey mocks the SetProviderKey method.
func (m *MockKeystoreUseCase) SetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
	apiKey string,
) error {
	args := m.Called(ctx, provider, apiKey)
	return args.Error(0)
}

// GetProviderKey mocks the GetProviderKey method.
func (m *MockKeystoreUseCase) GetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (string, error) {
	args := m.Called(ctx, provider)
	return args.String(0), args.Error(1)
}

// ClearProviderKey mocks the ClearProviderKey method.
func (m *MockKeystoreUseCase) ClearProviderKey(ctx context.Context, provider keystoreDomain.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

// HasProviderKey mocks the HasProviderKey method.
func (m *MockKeystoreUseCase) HasProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (bool, error) {
	args := m.Called(ctx, provider)
	return args.Bool(0), args.Error(1)
}

// Export mocks the Export method.
func (m *MockKeystoreUseCase) Export(ctx context.Context) (*keystoreDomain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keystoreDomain.Snapshot), args.Error(1)
}

// Import mocks the Import method.
func (m *MockKeystoreUseCase) Import(ctx context.Context, document []byte) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

// Close mocks the Close method.
func (m *MockKeystoreUseCase) Close() error {
	args := m.Called()
	return args.Error(0)
}
