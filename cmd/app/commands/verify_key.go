package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
	"github.com/allisson/omnichat/internal/provider"
)

var (
	// ErrKeyOrPassphraseRequired is returned when neither an API key nor a passphrase is given.
	ErrKeyOrPassphraseRequired = errors.New("either --api-key or --passphrase is required")

	// ErrInvalidPassphrase is returned when the passphrase does not unlock the keystore.
	ErrInvalidPassphrase = errors.New("invalid passphrase")
)

type verifyKeyResult struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// RunVerifyKey checks an API key against the provider. Without apiKey the stored key is used:
// the keystore is unlocked with passphrase for the duration of the check and locked again.
func RunVerifyKey(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	verifier provider.Verifier,
	logger *slog.Logger,
	writer io.Writer,
	providerName, apiKey, passphrase, format string,
) error {
	p, err := keystoreDomain.ParseProvider(providerName)
	if err != nil {
		return fmt.Errorf("%w: %q", err, providerName)
	}

	key := strings.TrimSpace(apiKey)
	if key == "" {
		if passphrase == "" {
			return ErrKeyOrPassphraseRequired
		}
		ok, err := useCase.Unlock(ctx, passphrase)
		if err != nil {
			return fmt.Errorf("failed to unlock keystore: %w", err)
		}
		if !ok {
			return ErrInvalidPassphrase
		}
		defer func() {
			if err := useCase.Lock(ctx); err != nil {
				logger.Error("failed to lock keystore", slog.Any("error", err))
			}
		}()

		key, err = provider.NewCredentials(useCase).Resolve(ctx, p)
		if err != nil {
			return err
		}
	}

	verifyErr := verifier.Verify(ctx, p, key)
	result := verifyKeyResult{Provider: p.String(), OK: verifyErr == nil}
	if verifyErr != nil {
		result.Error = verifyErr.Error()
	}

	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else if result.OK {
		_, _ = fmt.Fprintf(writer, "%s key is valid\n", p)
	} else {
		_, _ = fmt.Fprintf(writer, "%s key failed verification: %s\n", p, result.Error)
	}

	if verifyErr != nil {
		return fmt.Errorf("key verification failed: %w", verifyErr)
	}
	return nil
}
