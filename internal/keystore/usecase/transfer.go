package usecase

import (
	"context"
	"log/slog"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// Export returns the metadata and every AEAD secret. Legacy and absent entries are null.
func (k *keystoreUseCase) Export(ctx context.Context) (*keystoreDomain.Snapshot, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	meta, err := k.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, keystoreDomain.ErrKeystoreNotConfigured
	}

	snapshot := keystoreDomain.NewSnapshot(*meta)
	for _, provider := range keystoreDomain.Providers {
		secret, err := k.loadSecret(ctx, provider)
		if err != nil {
			return nil, err
		}
		if aead, ok := secret.(*keystoreDomain.AEADSecret); ok {
			snapshot.Data[provider] = &keystoreDomain.SnapshotPayload{
				IV:         aead.IV,
				Ciphertext: aead.Ciphertext,
			}
		}
	}
	return snapshot, nil
}

// Import validates the whole document, then replaces metadata and all provider entries in
// one transaction. The keystore is locked afterwards.
func (k *keystoreUseCase) Import(ctx context.Context, document []byte) error {
	snapshot, err := keystoreDomain.ParseSnapshot(document)
	if err != nil {
		return err
	}

	encodedMeta, err := snapshot.Meta.Encode()
	if err != nil {
		return err
	}
	entries := make(map[keystoreDomain.Provider]string, len(keystoreDomain.Providers))
	for _, provider := range keystoreDomain.Providers {
		secret := snapshot.Secret(provider)
		if secret == nil {
			continue
		}
		encoded, err := keystoreDomain.EncodeStoredSecret(secret)
		if err != nil {
			return err
		}
		entries[provider] = encoded
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	err = k.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := k.entryRepo.Set(txCtx, keystoreDomain.MetadataEntryName, encodedMeta); err != nil {
			return err
		}
		for _, provider := range keystoreDomain.Providers {
			encoded, ok := entries[provider]
			if !ok {
				if err := k.entryRepo.Delete(txCtx, provider.EntryName()); err != nil {
					return err
				}
				continue
			}
			if err := k.entryRepo.Set(txCtx, provider.EntryName(), encoded); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	k.lock()
	k.logger.Info("keystore imported", slog.Int("providers", len(entries)))
	return nil
}
