package provider

import (
	"context"
	"errors"
	"time"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
	"github.com/allisson/omnichat/internal/metrics"
)

const metricsDomain = "provider"

type verifierWithMetrics struct {
	next    Verifier
	metrics metrics.BusinessMetrics
}

// NewVerifierWithMetrics wraps a Verifier with metrics recording. The operation name is
// "verify_<provider>"; rejected keys are recorded with status "rejected".
func NewVerifierWithMetrics(verifier Verifier, m metrics.BusinessMetrics) Verifier {
	return &verifierWithMetrics{next: verifier, metrics: m}
}

// Verify records metrics for provider key verification.
func (v *verifierWithMetrics) Verify(ctx context.Context, provider keystoreDomain.Provider, apiKey string) error {
	start := time.Now()
	err := v.next.Verify(ctx, provider, apiKey)

	status := metrics.StatusOf(err)
	if errors.Is(err, ErrKeyRejected) {
		status = metrics.StatusRejected
	}

	metrics.Record(ctx, v.metrics, metricsDomain, "verify_"+provider.String(), start, status)
	return err
}
