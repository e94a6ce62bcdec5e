package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/omnichat/internal/errors"
)

// Operation statuses used as the "status" label.
const (
	StatusSuccess           = "success"
	StatusError             = "error"
	StatusLocked            = "locked"
	StatusNotConfigured     = "not_configured"
	StatusInvalid           = "invalid"
	StatusNotFound          = "not_found"
	StatusInvalidPassphrase = "invalid_passphrase"
	StatusRejected          = "rejected"
)

// BusinessMetrics records keystore and provider operations.
type BusinessMetrics interface {
	// RecordOperation counts one operation.
	// Domains: "keystore", "provider". Operations: "unlock", "provider_key_get", "verify_openai".
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes the operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// StatusOf maps an operation error to its status label. Keystore denials get their own
// label so a locked keystore does not read as a failure on dashboards.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case apperrors.Is(err, apperrors.ErrLocked):
		return StatusLocked
	case apperrors.Is(err, apperrors.ErrPreconditionFailed):
		return StatusNotConfigured
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return StatusInvalid
	case apperrors.Is(err, apperrors.ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}

// Record counts one operation and observes its latency since start.
func Record(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, status string) {
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewBusinessMetrics creates the operation counter and duration histogram, both named
// with the namespace prefix (e.g. "omnichat_operations_total").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of keystore and provider operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	// Key derivation dominates unlock and passphrase latency, so the buckets reach into
	// whole seconds.
	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of keystore and provider operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a BusinessMetrics that records nothing.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

// RecordDuration does nothing.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}
