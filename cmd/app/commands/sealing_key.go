package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/sealer"
)

const sealerSample = "omnichat-sealer-sample"

// RunCreateSealingKey generates 32 random bytes for sealing server-side provider keys.
// With localKMS the key is printed as a localsecrets KMS_KEY_URI, otherwise as
// SERVER_ENCRYPTION_SECRET. The key is zeroed after encoding.
//
// Never use localsecrets in production; point KMS_KEY_URI at a cloud KMS key instead.
func RunCreateSealingKey(writer io.Writer, localKMS bool) error {
	key := make([]byte, keystoreDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate sealing key: %w", err)
	}
	defer keystoreDomain.Zero(key)

	encoded := base64.StdEncoding.EncodeToString(key)

	_, _ = fmt.Fprintln(writer, "# Sealed server key configuration")
	_, _ = fmt.Fprintln(writer, "# Copy this variable to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	if localKMS {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"base64key://%s\"\n", encoded)
		return nil
	}
	_, _ = fmt.Fprintf(writer, "SERVER_ENCRYPTION_SECRET=\"%s\"\n", encoded)
	return nil
}

// RunVerifySealer opens the keeper at kmsKeyURI and checks that a sample value survives a
// seal and open round trip.
func RunVerifySealer(
	ctx context.Context,
	kmsService sealer.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	if kmsKeyURI == "" {
		return fmt.Errorf("--kms-key-uri is required")
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return err
	}
	s := sealer.NewKeeperSealer(keeper)
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", err))
		}
	}()

	payload, err := s.Seal(ctx, sealerSample)
	if err != nil {
		return fmt.Errorf("failed to seal sample: %w", err)
	}
	plaintext, err := s.Open(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to open sample: %w", err)
	}
	if plaintext != sealerSample {
		return fmt.Errorf("sealer round trip returned a different value")
	}

	logger.Info("KMS keeper verified")
	_, _ = fmt.Fprintln(writer, "KMS key is usable for sealing server keys")
	return nil
}
