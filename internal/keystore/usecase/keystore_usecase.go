package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/allisson/omnichat/internal/database"
	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	keystoreService "github.com/allisson/omnichat/internal/keystore/service"
)

// keystoreUseCase implements the KeystoreUseCase interface.
//
// mu guards key and every multi-entry sequence. Readers that only touch the cache or a
// single entry take the read lock.
type keystoreUseCase struct {
	mu sync.RWMutex

	txManager    database.TxManager
	entryRepo    EntryRepository
	cache        SessionCache
	aeadManager  keystoreService.AEADManager
	keyDeriver   keystoreService.KeyDeriver
	legacyCipher keystoreService.LegacyCipher
	logger       *slog.Logger

	// key is the derived key; nil while locked or unconfigured.
	key []byte
}

// NewKeystoreUseCase creates the keystore. It starts locked (or unconfigured).
func NewKeystoreUseCase(
	txManager database.TxManager,
	entryRepo EntryRepository,
	cache SessionCache,
	aeadManager keystoreService.AEADManager,
	keyDeriver keystoreService.KeyDeriver,
	legacyCipher keystoreService.LegacyCipher,
	logger *slog.Logger,
) KeystoreUseCase {
	return &keystoreUseCase{
		txManager:    txManager,
		entryRepo:    entryRepo,
		cache:        cache,
		aeadManager:  aeadManager,
		keyDeriver:   keyDeriver,
		legacyCipher: legacyCipher,
		logger:       logger,
	}
}

// SetPassphrase configures the keystore or changes its passphrase.
func (k *keystoreUseCase) SetPassphrase(ctx context.Context, passphrase string) error {
	if utf8.RuneCountInString(passphrase) < keystoreDomain.MinPassphraseLength {
		return keystoreDomain.ErrPassphraseTooShort
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	meta, err := k.loadMetadata(ctx)
	if err != nil {
		return err
	}
	if meta == nil {
		return k.configure(ctx, passphrase)
	}
	if k.key == nil {
		return keystoreDomain.ErrKeystoreLocked
	}
	return k.changePassphrase(ctx, passphrase)
}

// configure writes fresh metadata, unlocks and migrates legacy entries.
func (k *keystoreUseCase) configure(ctx context.Context, passphrase string) error {
	meta, err := k.keyDeriver.NewMetadata()
	if err != nil {
		return err
	}
	key, err := k.keyDeriver.DeriveKey(passphrase, meta)
	if err != nil {
		return err
	}

	// AEAD entries left without metadata can never be decrypted and would fail every
	// future unlock verification.
	if err := k.dropOrphanedSecrets(ctx); err != nil {
		keystoreDomain.Zero(key)
		return err
	}

	encoded, err := meta.Encode()
	if err != nil {
		keystoreDomain.Zero(key)
		return err
	}
	if err := k.entryRepo.Set(ctx, keystoreDomain.MetadataEntryName, encoded); err != nil {
		keystoreDomain.Zero(key)
		return err
	}

	k.setKey(key)
	k.logger.Info("keystore passphrase configured")

	k.migrateLegacySecrets(ctx)
	return nil
}

func (k *keystoreUseCase) dropOrphanedSecrets(ctx context.Context) error {
	for _, provider := range keystoreDomain.Providers {
		secret, err := k.loadSecret(ctx, provider)
		if err != nil {
			return err
		}
		if _, ok := secret.(*keystoreDomain.AEADSecret); !ok {
			continue
		}
		k.logger.Warn("dropping encrypted provider key without keystore metadata",
			slog.String("provider", provider.String()),
		)
		if err := k.entryRepo.Delete(ctx, provider.EntryName()); err != nil {
			return err
		}
	}
	return nil
}

// changePassphrase re-encrypts every AEAD secret under a key derived with a new salt.
// Metadata and secrets are replaced in one transaction.
func (k *keystoreUseCase) changePassphrase(ctx context.Context, passphrase string) error {
	plaintexts, err := k.decryptAll(ctx, k.key)
	if err != nil {
		return err
	}

	meta, err := k.keyDeriver.NewMetadata()
	if err != nil {
		return err
	}
	newKey, err := k.keyDeriver.DeriveKey(passphrase, meta)
	if err != nil {
		return err
	}
	encodedMeta, err := meta.Encode()
	if err != nil {
		keystoreDomain.Zero(newKey)
		return err
	}

	err = k.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := k.entryRepo.Set(txCtx, keystoreDomain.MetadataEntryName, encodedMeta); err != nil {
			return err
		}
		for provider, plaintext := range plaintexts {
			if err := k.storeAEAD(txCtx, newKey, provider, plaintext); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		keystoreDomain.Zero(newKey)
		return err
	}

	k.setKey(newKey)
	k.cache.Clear()
	for provider, plaintext := range plaintexts {
		k.cache.Set(provider, plaintext)
	}

	k.logger.Info("keystore passphrase changed", slog.Int("reencrypted", len(plaintexts)))
	return nil
}

// Unlock verifies the passphrase against every AEAD secret before accepting it.
func (k *keystoreUseCase) Unlock(ctx context.Context, passphrase string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	meta, err := k.loadMetadata(ctx)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, keystoreDomain.ErrKeystoreNotConfigured
	}

	candidate, err := k.keyDeriver.DeriveKey(passphrase, meta)
	if err != nil {
		return false, err
	}

	// While unlocked the held key is the reference, even when no secret can verify it.
	if k.key != nil && subtle.ConstantTimeCompare(candidate, k.key) != 1 {
		keystoreDomain.Zero(candidate)
		return false, nil
	}

	plaintexts, err := k.decryptAll(ctx, candidate)
	if err != nil {
		keystoreDomain.Zero(candidate)
		if errors.Is(err, keystoreDomain.ErrDecryptionFailed) {
			return false, nil
		}
		return false, err
	}

	k.setKey(candidate)
	k.cache.Clear()
	for provider, plaintext := range plaintexts {
		k.cache.Set(provider, plaintext)
	}

	k.migrateLegacySecrets(ctx)
	return true, nil
}

// decryptAll decrypts every readable AEAD secret with key.
// Any authentication failure returns ErrDecryptionFailed; corrupt envelopes are skipped.
func (k *keystoreUseCase) decryptAll(
	ctx context.Context,
	key []byte,
) (map[keystoreDomain.Provider]string, error) {
	plaintexts := make(map[keystoreDomain.Provider]string, len(keystoreDomain.Providers))
	for _, provider := range keystoreDomain.Providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		secret, err := k.loadSecret(ctx, provider)
		if err != nil {
			return nil, err
		}
		aead, ok := secret.(*keystoreDomain.AEADSecret)
		if !ok {
			continue
		}

		plaintext, err := k.decryptAEAD(key, aead)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", keystoreDomain.ErrDecryptionFailed, provider)
		}
		plaintexts[provider] = plaintext
	}
	return plaintexts, nil
}

// Lock discards the derived key and clears the session cache.
func (k *keystoreUseCase) Lock(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.lock()
	return nil
}

func (k *keystoreUseCase) lock() {
	k.setKey(nil)
	k.cache.Clear()
}

// setKey replaces the derived key, zeroing the previous one.
func (k *keystoreUseCase) setKey(key []byte) {
	if k.key != nil {
		keystoreDomain.Zero(k.key)
	}
	k.key = key
}

// Close locks the keystore.
func (k *keystoreUseCase) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.lock()
	return nil
}

// IsPassphraseConfigured reports whether metadata is stored.
func (k *keystoreUseCase) IsPassphraseConfigured(ctx context.Context) (bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	meta, err := k.loadMetadata(ctx)
	if err != nil {
		if errors.Is(err, keystoreDomain.ErrInvalidMetadata) {
			k.warnCorruptMetadata(err)
			return true, nil
		}
		return false, err
	}
	return meta != nil, nil
}

// IsLocked reports whether the keystore is configured but holds no key.
func (k *keystoreUseCase) IsLocked(ctx context.Context) (bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	state, err := k.state(ctx)
	if err != nil {
		return false, err
	}
	return state == keystoreDomain.StateLocked, nil
}

func (k *keystoreUseCase) state(ctx context.Context) (keystoreDomain.State, error) {
	if k.key != nil {
		return keystoreDomain.StateUnlocked, nil
	}
	meta, err := k.loadMetadata(ctx)
	if err != nil {
		// Corrupt metadata can never unlock; report it as locked.
		if errors.Is(err, keystoreDomain.ErrInvalidMetadata) {
			k.warnCorruptMetadata(err)
			return keystoreDomain.StateLocked, nil
		}
		return "", err
	}
	if meta == nil {
		return keystoreDomain.StateUnconfigured, nil
	}
	return keystoreDomain.StateLocked, nil
}

// Status returns the keystore state and per-provider key availability.
func (k *keystoreUseCase) Status(ctx context.Context) (*keystoreDomain.Status, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	state, err := k.state(ctx)
	if err != nil {
		return nil, err
	}

	status := &keystoreDomain.Status{
		State:      state,
		Configured: state != keystoreDomain.StateUnconfigured,
		Locked:     state == keystoreDomain.StateLocked,
		Providers:  make(map[keystoreDomain.Provider]bool, len(keystoreDomain.Providers)),
	}
	for _, provider := range keystoreDomain.Providers {
		has, err := k.hasProviderKey(ctx, state, provider)
		if err != nil {
			return nil, err
		}
		status.Providers[provider] = has
	}
	return status, nil
}

// SetProviderKey encrypts and stores the key for provider.
func (k *keystoreUseCase) SetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
	apiKey string,
) error {
	if !provider.Valid() {
		return keystoreDomain.ErrUnknownProvider
	}
	value := strings.TrimSpace(apiKey)
	if value == "" {
		return k.ClearProviderKey(ctx, provider)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	state, err := k.state(ctx)
	if err != nil {
		return err
	}

	switch state {
	case keystoreDomain.StateUnconfigured:
		return k.storeLegacy(ctx, provider, value)
	case keystoreDomain.StateLocked:
		return keystoreDomain.ErrKeystoreLocked
	default:
		if err := k.storeAEAD(ctx, k.key, provider, value); err != nil {
			return err
		}
		k.cache.Set(provider, value)
		return nil
	}
}

// GetProviderKey returns the plaintext key of provider.
func (k *keystoreUseCase) GetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (string, error) {
	if !provider.Valid() {
		return "", keystoreDomain.ErrUnknownProvider
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	return k.getProviderKey(ctx, provider)
}

func (k *keystoreUseCase) getProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (string, error) {
	if value, ok := k.cache.Get(provider); ok {
		return value, nil
	}

	secret, err := k.loadSecret(ctx, provider)
	if err != nil {
		return "", err
	}

	switch s := secret.(type) {
	case nil:
		return "", keystoreDomain.ErrProviderKeyNotFound
	case *keystoreDomain.LegacyXORSecret:
		return k.decryptLegacy(ctx, provider, s)
	case *keystoreDomain.AEADSecret:
		if k.key == nil {
			meta, err := k.loadMetadata(ctx)
			if err != nil {
				if errors.Is(err, keystoreDomain.ErrInvalidMetadata) {
					k.warnCorruptMetadata(err)
					return "", keystoreDomain.ErrProviderKeyNotFound
				}
				return "", err
			}
			if meta != nil {
				return "", keystoreDomain.ErrKeystoreLocked
			}
			return "", keystoreDomain.ErrProviderKeyNotFound
		}

		plaintext, err := k.decryptAEAD(k.key, s)
		if err != nil {
			k.logger.Warn("stored provider key failed authentication",
				slog.String("provider", provider.String()),
			)
			return "", keystoreDomain.ErrProviderKeyNotFound
		}
		k.cache.Set(provider, plaintext)
		return plaintext, nil
	default:
		return "", keystoreDomain.ErrProviderKeyNotFound
	}
}

// ClearProviderKey deletes the stored key and its cached plaintext in any state.
func (k *keystoreUseCase) ClearProviderKey(ctx context.Context, provider keystoreDomain.Provider) error {
	if !provider.Valid() {
		return keystoreDomain.ErrUnknownProvider
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.entryRepo.Delete(ctx, provider.EntryName()); err != nil {
		return err
	}
	k.cache.Delete(provider)
	return nil
}

// HasProviderKey reports whether a usable key is available for provider.
func (k *keystoreUseCase) HasProviderKey(ctx context.Context, provider keystoreDomain.Provider) (bool, error) {
	if !provider.Valid() {
		return false, keystoreDomain.ErrUnknownProvider
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	state, err := k.state(ctx)
	if err != nil {
		return false, err
	}
	return k.hasProviderKey(ctx, state, provider)
}

func (k *keystoreUseCase) hasProviderKey(
	ctx context.Context,
	state keystoreDomain.State,
	provider keystoreDomain.Provider,
) (bool, error) {
	if state == keystoreDomain.StateLocked {
		return false, nil
	}

	value, err := k.getProviderKey(ctx, provider)
	if err != nil {
		if errors.Is(err, keystoreDomain.ErrProviderKeyNotFound) ||
			errors.Is(err, keystoreDomain.ErrKeystoreLocked) {
			return false, nil
		}
		return false, err
	}
	return value != "", nil
}

// loadMetadata returns nil metadata when the keystore is unconfigured.
func (k *keystoreUseCase) loadMetadata(ctx context.Context) (*keystoreDomain.Metadata, error) {
	raw, err := k.entryRepo.Get(ctx, keystoreDomain.MetadataEntryName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return keystoreDomain.ParseMetadata(raw)
}

func (k *keystoreUseCase) warnCorruptMetadata(err error) {
	k.logger.Warn("ignoring corrupt keystore metadata", slog.Any("error", err))
}

// loadSecret returns nil for absent and unparseable entries.
func (k *keystoreUseCase) loadSecret(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (keystoreDomain.StoredSecret, error) {
	raw, err := k.entryRepo.Get(ctx, provider.EntryName())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	secret, err := keystoreDomain.ParseStoredSecret(raw)
	if err != nil {
		k.logger.Warn("ignoring corrupt provider entry",
			slog.String("provider", provider.String()),
			slog.Any("error", err),
		)
		return nil, nil
	}
	return secret, nil
}

func (k *keystoreUseCase) storeAEAD(
	ctx context.Context,
	key []byte,
	provider keystoreDomain.Provider,
	plaintext string,
) error {
	cipher, err := k.aeadManager.CreateCipher(key, keystoreDomain.AESGCM)
	if err != nil {
		return err
	}
	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return err
	}

	encoded, err := keystoreDomain.EncodeStoredSecret(&keystoreDomain.AEADSecret{
		IV:         nonce,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return err
	}
	return k.entryRepo.Set(ctx, provider.EntryName(), encoded)
}

func (k *keystoreUseCase) decryptAEAD(key []byte, secret *keystoreDomain.AEADSecret) (string, error) {
	cipher, err := k.aeadManager.CreateCipher(key, keystoreDomain.AESGCM)
	if err != nil {
		return "", err
	}
	plaintext, err := cipher.Decrypt(secret.Ciphertext, secret.IV, nil)
	if err != nil {
		return "", keystoreDomain.ErrDecryptionFailed
	}
	defer keystoreDomain.Zero(plaintext)
	return string(plaintext), nil
}
