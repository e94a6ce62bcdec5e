package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/keystore/usecase/mocks"
)

func TestCredentials_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		source := &mocks.MockKeystoreUseCase{}
		source.On("GetProviderKey", mock.Anything, keystoreDomain.Groq).Return("gsk-123", nil).Once()

		apiKey, err := NewCredentials(source).Resolve(ctx, keystoreDomain.Groq)

		require.NoError(t, err)
		assert.Equal(t, "gsk-123", apiKey)
		source.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		source := &mocks.MockKeystoreUseCase{}
		source.On("GetProviderKey", mock.Anything, keystoreDomain.OpenAI).
			Return("", keystoreDomain.ErrProviderKeyNotFound).
			Once()

		apiKey, err := NewCredentials(source).Resolve(ctx, keystoreDomain.OpenAI)

		assert.Empty(t, apiKey)
		assert.ErrorIs(t, err, ErrNoKeyConfigured)
		assert.Contains(t, err.Error(), "provider openai")
	})

	t.Run("Error_BlankKey", func(t *testing.T) {
		source := &mocks.MockKeystoreUseCase{}
		source.On("GetProviderKey", mock.Anything, keystoreDomain.Claude).Return("  ", nil).Once()

		_, err := NewCredentials(source).Resolve(ctx, keystoreDomain.Claude)

		assert.ErrorIs(t, err, ErrNoKeyConfigured)
	})

	t.Run("Error_Locked", func(t *testing.T) {
		source := &mocks.MockKeystoreUseCase{}
		source.On("GetProviderKey", mock.Anything, keystoreDomain.Gemini).
			Return("", keystoreDomain.ErrKeystoreLocked).
			Once()

		_, err := NewCredentials(source).Resolve(ctx, keystoreDomain.Gemini)

		assert.ErrorIs(t, err, keystoreDomain.ErrKeystoreLocked)
		assert.NotErrorIs(t, err, ErrNoKeyConfigured)
	})

	t.Run("Error_Storage", func(t *testing.T) {
		storageErr := errors.New("connection reset")
		source := &mocks.MockKeystoreUseCase{}
		source.On("GetProviderKey", mock.Anything, keystoreDomain.Gemini).Return("", storageErr).Once()

		_, err := NewCredentials(source).Resolve(ctx, keystoreDomain.Gemini)

		assert.ErrorIs(t, err, storageErr)
	})

	t.Run("Error_UnknownProvider", func(t *testing.T) {
		source := &mocks.MockKeystoreUseCase{}

		_, err := NewCredentials(source).Resolve(ctx, keystoreDomain.Provider("mistral"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		source.AssertNotCalled(t, "GetProviderKey", mock.Anything, mock.Anything)
	})
}
