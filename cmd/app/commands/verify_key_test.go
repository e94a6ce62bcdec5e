package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreMocks "github.com/allisson/omnichat/internal/keystore/usecase/mocks"
	"github.com/allisson/omnichat/internal/provider"
	providerMocks "github.com/allisson/omnichat/internal/provider/mocks"
)

func TestRunVerifyKey(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit-key", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockVerifier := &providerMocks.MockVerifier{}
		mockVerifier.On("Verify", ctx, keystoreDomain.Groq, "gsk-123").Return(nil)

		var out bytes.Buffer
		err := RunVerifyKey(ctx, mockUseCase, mockVerifier, discardLogger(), &out, "Groq", " gsk-123 ", "", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "groq key is valid")
		mockVerifier.AssertExpectations(t)
		mockUseCase.AssertNotCalled(t, "Unlock")
	})

	t.Run("stored-key", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockUseCase.On("Unlock", ctx, "correct horse").Return(true, nil)
		mockUseCase.On("GetProviderKey", ctx, keystoreDomain.OpenAI).Return("sk-stored", nil)
		mockUseCase.On("Lock", ctx).Return(nil)

		mockVerifier := &providerMocks.MockVerifier{}
		mockVerifier.On("Verify", ctx, keystoreDomain.OpenAI, "sk-stored").Return(nil)

		var out bytes.Buffer
		err := RunVerifyKey(ctx, mockUseCase, mockVerifier, discardLogger(), &out, "openai", "", "correct horse", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"ok": true`)
		mockUseCase.AssertExpectations(t)
		mockVerifier.AssertExpectations(t)
	})

	t.Run("rejected-key", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockVerifier := &providerMocks.MockVerifier{}
		mockVerifier.On("Verify", ctx, keystoreDomain.Claude, "sk-ant-bad").Return(provider.ErrKeyRejected)

		var out bytes.Buffer
		err := RunVerifyKey(ctx, mockUseCase, mockVerifier, discardLogger(), &out, "claude", "sk-ant-bad", "", "json")

		require.ErrorIs(t, err, provider.ErrKeyRejected)
		require.Contains(t, out.String(), `"ok": false`)
		require.Contains(t, out.String(), `"error":`)
	})

	t.Run("wrong-passphrase", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockUseCase.On("Unlock", ctx, "wrong").Return(false, nil)

		err := RunVerifyKey(
			ctx, mockUseCase, &providerMocks.MockVerifier{}, discardLogger(), &bytes.Buffer{},
			"openai", "", "wrong", "text",
		)
		require.ErrorIs(t, err, ErrInvalidPassphrase)
		mockUseCase.AssertNotCalled(t, "Lock", ctx)
	})

	t.Run("no-stored-key", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockUseCase.On("Unlock", ctx, "correct horse").Return(true, nil)
		mockUseCase.On("GetProviderKey", ctx, keystoreDomain.Gemini).Return("", keystoreDomain.ErrProviderKeyNotFound)
		mockUseCase.On("Lock", ctx).Return(nil)

		err := RunVerifyKey(
			ctx, mockUseCase, &providerMocks.MockVerifier{}, discardLogger(), &bytes.Buffer{},
			"gemini", "", "correct horse", "text",
		)
		require.ErrorIs(t, err, provider.ErrNoKeyConfigured)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing-key-and-passphrase", func(t *testing.T) {
		err := RunVerifyKey(
			ctx, &keystoreMocks.MockKeystoreUseCase{}, &providerMocks.MockVerifier{}, discardLogger(),
			&bytes.Buffer{}, "openai", "  ", "", "text",
		)
		require.ErrorIs(t, err, ErrKeyOrPassphraseRequired)
	})

	t.Run("unknown-provider", func(t *testing.T) {
		err := RunVerifyKey(
			ctx, &keystoreMocks.MockKeystoreUseCase{}, &providerMocks.MockVerifier{}, discardLogger(),
			&bytes.Buffer{}, "mistral", "key", "", "text",
		)
		require.ErrorIs(t, err, keystoreDomain.ErrUnknownProvider)
	})

	t.Run("unlock-error", func(t *testing.T) {
		mockUseCase := &keystoreMocks.MockKeystoreUseCase{}
		mockUseCase.On("Unlock", ctx, "correct horse").Return(false, errors.New("db down"))

		err := RunVerifyKey(
			ctx, mockUseCase, &providerMocks.MockVerifier{}, discardLogger(), &bytes.Buffer{},
			"openai", "", "correct horse", "text",
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to unlock keystore")
	})
}
