package usecase

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// storeLegacy writes a provider key with the legacy XOR scheme, creating the legacy key
// material on first use.
func (k *keystoreUseCase) storeLegacy(
	ctx context.Context,
	provider keystoreDomain.Provider,
	plaintext string,
) error {
	legacyKey, err := k.entryRepo.Get(ctx, keystoreDomain.LegacyKeyEntryName)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if legacyKey == "" {
		legacyKey, err = k.legacyCipher.GenerateKey()
		if err != nil {
			return err
		}
		if err := k.entryRepo.Set(ctx, keystoreDomain.LegacyKeyEntryName, legacyKey); err != nil {
			return err
		}
	}

	encoded, err := keystoreDomain.EncodeStoredSecret(&keystoreDomain.LegacyXORSecret{
		Data: k.legacyCipher.Encrypt(plaintext, legacyKey),
	})
	if err != nil {
		return err
	}
	return k.entryRepo.Set(ctx, provider.EntryName(), encoded)
}

// decryptLegacy reverses the XOR scheme. Unreadable entries are reported as not found.
func (k *keystoreUseCase) decryptLegacy(
	ctx context.Context,
	provider keystoreDomain.Provider,
	secret *keystoreDomain.LegacyXORSecret,
) (string, error) {
	legacyKey, err := k.entryRepo.Get(ctx, keystoreDomain.LegacyKeyEntryName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", keystoreDomain.ErrProviderKeyNotFound
		}
		return "", err
	}

	plaintext, err := k.legacyCipher.Decrypt(secret.Data, legacyKey)
	if err != nil || plaintext == "" {
		k.logger.Warn("unreadable legacy provider key",
			slog.String("provider", provider.String()),
		)
		return "", keystoreDomain.ErrProviderKeyNotFound
	}
	return plaintext, nil
}

// migrateLegacySecrets re-encrypts every legacy entry under the derived key.
//
// Each provider is migrated and written on its own; failures are logged and the entry is
// left in the legacy format, where reads still find it. The legacy key material is deleted
// once no legacy entry remains. Callers hold the write lock and have set k.key.
func (k *keystoreUseCase) migrateLegacySecrets(ctx context.Context) {
	remaining := 0
	migrated := 0

	for _, provider := range keystoreDomain.Providers {
		if ctx.Err() != nil {
			return
		}

		secret, err := k.loadSecret(ctx, provider)
		if err != nil {
			k.logger.Warn("legacy migration: failed to read provider key",
				slog.String("provider", provider.String()),
				slog.Any("error", err),
			)
			remaining++
			continue
		}
		legacy, ok := secret.(*keystoreDomain.LegacyXORSecret)
		if !ok {
			continue
		}

		plaintext, err := k.decryptLegacy(ctx, provider, legacy)
		if err != nil {
			remaining++
			continue
		}
		if err := k.storeAEAD(ctx, k.key, provider, plaintext); err != nil {
			k.logger.Warn("legacy migration: failed to store provider key",
				slog.String("provider", provider.String()),
				slog.Any("error", err),
			)
			remaining++
			continue
		}

		k.cache.Set(provider, plaintext)
		migrated++
	}

	if migrated > 0 {
		k.logger.Info("migrated legacy provider keys", slog.Int("count", migrated))
	}
	if remaining > 0 {
		return
	}

	if err := k.entryRepo.Delete(ctx, keystoreDomain.LegacyKeyEntryName); err != nil {
		k.logger.Warn("legacy migration: failed to delete legacy key material", slog.Any("error", err))
	}
}
