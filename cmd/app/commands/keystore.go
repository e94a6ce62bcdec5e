package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreHTTP "github.com/allisson/omnichat/internal/keystore/http"
	"github.com/allisson/omnichat/internal/keystore/http/dto"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
)

// ErrImportTooLarge is returned when an import document exceeds keystoreHTTP.MaxImportSize.
var ErrImportTooLarge = errors.New("import document is too large")

// RunKeystoreStatus prints whether a passphrase is configured, whether the keystore is
// locked and which providers have a stored key. The CLI never holds the derived key, so
// a configured keystore always reports locked.
func RunKeystoreStatus(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	writer io.Writer,
	format string,
) error {
	status, err := useCase.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read keystore status: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, dto.MapStatusToResponse(status))
	}

	_, _ = fmt.Fprintf(writer, "State:      %s\n", status.State)
	_, _ = fmt.Fprintf(writer, "Configured: %t\n", status.Configured)
	_, _ = fmt.Fprintf(writer, "Locked:     %t\n", status.Locked)
	_, _ = fmt.Fprintln(writer, "Providers:")
	for _, provider := range keystoreDomain.Providers {
		stored := "empty"
		if status.Providers[provider] {
			stored = "stored"
		}
		_, _ = fmt.Fprintf(writer, "  %-7s %s\n", provider, stored)
	}
	return nil
}

// RunExportKeystore writes the keystore transfer document to writer. The document holds
// ciphertexts only and needs no unlock.
func RunExportKeystore(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	snapshot, err := useCase.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to export keystore: %w", err)
	}

	if err := writeJSON(writer, snapshot); err != nil {
		return err
	}

	stored := 0
	for _, payload := range snapshot.Data {
		if payload != nil {
			stored++
		}
	}
	logger.Info("keystore exported", slog.Int("providers", stored))
	return nil
}

// RunImportKeystore replaces the keystore with the document read from reader. The imported
// keystore is locked; it opens with the passphrase of the keystore that produced the export.
func RunImportKeystore(
	ctx context.Context,
	useCase keystoreUseCase.KeystoreUseCase,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
) error {
	document, err := io.ReadAll(io.LimitReader(reader, keystoreHTTP.MaxImportSize+1))
	if err != nil {
		return fmt.Errorf("failed to read import document: %w", err)
	}
	if len(document) > keystoreHTTP.MaxImportSize {
		return ErrImportTooLarge
	}

	if err := useCase.Import(ctx, document); err != nil {
		return fmt.Errorf("failed to import keystore: %w", err)
	}

	logger.Info("keystore imported", slog.Int("bytes", len(document)))
	_, _ = fmt.Fprintln(writer, "Keystore imported. Unlock it with the passphrase of the exported keystore.")
	return nil
}
