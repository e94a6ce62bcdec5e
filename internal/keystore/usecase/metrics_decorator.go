package usecase

import (
	"context"
	"time"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/metrics"
)

const metricsDomain = "keystore"

// keystoreUseCaseWithMetrics decorates KeystoreUseCase with metrics instrumentation.
type keystoreUseCaseWithMetrics struct {
	next    KeystoreUseCase
	metrics metrics.BusinessMetrics
}

// NewKeystoreUseCaseWithMetrics wraps a KeystoreUseCase with metrics recording.
func NewKeystoreUseCaseWithMetrics(useCase KeystoreUseCase, m metrics.BusinessMetrics) KeystoreUseCase {
	return &keystoreUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (k *keystoreUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	metrics.Record(ctx, k.metrics, metricsDomain, operation, start, status)
}

// SetPassphrase records metrics for passphrase setup and changes.
func (k *keystoreUseCaseWithMetrics) SetPassphrase(ctx context.Context, passphrase string) error {
	start := time.Now()
	err := k.next.SetPassphrase(ctx, passphrase)
	k.record(ctx, "set_passphrase", start, metrics.StatusOf(err))
	return err
}

// Unlock records metrics for unlock attempts. Wrong passphrases are labelled
// invalid_passphrase rather than error.
func (k *keystoreUseCaseWithMetrics) Unlock(ctx context.Context, passphrase string) (bool, error) {
	start := time.Now()
	ok, err := k.next.Unlock(ctx, passphrase)

	status := metrics.StatusOf(err)
	if err == nil && !ok {
		status = metrics.StatusInvalidPassphrase
	}
	k.record(ctx, "unlock", start, status)
	return ok, err
}

// Lock records metrics for lock operations.
func (k *keystoreUseCaseWithMetrics) Lock(ctx context.Context) error {
	start := time.Now()
	err := k.next.Lock(ctx)
	k.record(ctx, "lock", start, metrics.StatusOf(err))
	return err
}

// IsPassphraseConfigured delegates without recording metrics.
func (k *keystoreUseCaseWithMetrics) IsPassphraseConfigured(ctx context.Context) (bool, error) {
	return k.next.IsPassphraseConfigured(ctx)
}

// IsLocked delegates without recording metrics.
func (k *keystoreUseCaseWithMetrics) IsLocked(ctx context.Context) (bool, error) {
	return k.next.IsLocked(ctx)
}

// Status delegates without recording metrics.
func (k *keystoreUseCaseWithMetrics) Status(ctx context.Context) (*keystoreDomain.Status, error) {
	return k.next.Status(ctx)
}

// SetProviderKey records metrics for provider key writes.
func (k *keystoreUseCaseWithMetrics) SetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
	apiKey string,
) error {
	start := time.Now()
	err := k.next.SetProviderKey(ctx, provider, apiKey)
	k.record(ctx, "provider_key_set", start, metrics.StatusOf(err))
	return err
}

// GetProviderKey records metrics for provider key reads.
func (k *keystoreUseCaseWithMetrics) GetProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (string, error) {
	start := time.Now()
	value, err := k.next.GetProviderKey(ctx, provider)
	k.record(ctx, "provider_key_get", start, metrics.StatusOf(err))
	return value, err
}

// ClearProviderKey records metrics for provider key deletion.
func (k *keystoreUseCaseWithMetrics) ClearProviderKey(ctx context.Context, provider keystoreDomain.Provider) error {
	start := time.Now()
	err := k.next.ClearProviderKey(ctx, provider)
	k.record(ctx, "provider_key_clear", start, metrics.StatusOf(err))
	return err
}

// HasProviderKey delegates without recording metrics.
func (k *keystoreUseCaseWithMetrics) HasProviderKey(
	ctx context.Context,
	provider keystoreDomain.Provider,
) (bool, error) {
	return k.next.HasProviderKey(ctx, provider)
}

// Export records metrics for keystore exports.
func (k *keystoreUseCaseWithMetrics) Export(ctx context.Context) (*keystoreDomain.Snapshot, error) {
	start := time.Now()
	snapshot, err := k.next.Export(ctx)
	k.record(ctx, "export", start, metrics.StatusOf(err))
	return snapshot, err
}

// Import records metrics for keystore imports.
func (k *keystoreUseCaseWithMetrics) Import(ctx context.Context, document []byte) error {
	start := time.Now()
	err := k.next.Import(ctx, document)
	k.record(ctx, "import", start, metrics.StatusOf(err))
	return err
}

// Close delegates to the wrapped use case.
func (k *keystoreUseCaseWithMetrics) Close() error {
	return k.next.Close()
}
