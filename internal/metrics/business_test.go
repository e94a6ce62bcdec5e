package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/omnichat/internal/errors"
)

// assertBizMetricLine matches a metric line by name, label pattern and value. The
// exporter adds otel scope labels, so labels are matched as a regex fragment.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

type recordedOperation struct {
	domain, operation, status string
	duration                  time.Duration
}

type recordingMetrics struct {
	operations []recordedOperation
	durations  []recordedOperation
}

func (r *recordingMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.operations = append(r.operations, recordedOperation{domain: domain, operation: operation, status: status})
}

func (r *recordingMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	r.durations = append(r.durations, recordedOperation{
		domain:    domain,
		operation: operation,
		status:    status,
		duration:  duration,
	})
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: StatusSuccess},
		{name: "locked", err: apperrors.Wrap(apperrors.ErrLocked, "keystore is locked"), want: StatusLocked},
		{
			name: "not configured",
			err:  apperrors.Wrap(apperrors.ErrPreconditionFailed, "keystore passphrase not configured"),
			want: StatusNotConfigured,
		},
		{name: "invalid", err: apperrors.Wrap(apperrors.ErrInvalidInput, "invalid keystore snapshot"), want: StatusInvalid},
		{name: "not found", err: apperrors.Wrap(apperrors.ErrNotFound, "provider key not found"), want: StatusNotFound},
		{name: "storage failure", err: errors.New("database is closed"), want: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestRecord(t *testing.T) {
	m := &recordingMetrics{}
	start := time.Now().Add(-250 * time.Millisecond)

	Record(context.Background(), m, "keystore", "unlock", start, StatusInvalidPassphrase)

	require.Len(t, m.operations, 1)
	assert.Equal(t, recordedOperation{
		domain:    "keystore",
		operation: "unlock",
		status:    StatusInvalidPassphrase,
	}, m.operations[0])

	require.Len(t, m.durations, 1)
	assert.Equal(t, "unlock", m.durations[0].operation)
	assert.GreaterOrEqual(t, m.durations[0].duration, 250*time.Millisecond)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("keystore_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "keystore_test")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "keystore", "lock", StatusSuccess)
		bm.RecordDuration(context.Background(), "provider", "verify_groq", time.Second, StatusRejected)
	})
}

func TestBusinessMetrics_Export(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider("keystore_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(ctx))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "keystore_test")
	require.NoError(t, err)

	bm.RecordOperation(ctx, "keystore", "unlock", StatusSuccess)
	bm.RecordOperation(ctx, "keystore", "unlock", StatusSuccess)
	bm.RecordOperation(ctx, "keystore", "unlock", StatusInvalidPassphrase)
	bm.RecordOperation(ctx, "keystore", "provider_key_set", StatusLocked)
	bm.RecordOperation(ctx, "provider", "verify_openai", StatusRejected)

	bm.RecordDuration(ctx, "keystore", "unlock", 1200*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "keystore", "unlock", 800*time.Millisecond, StatusSuccess)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `keystore_test_operations_total`,
		`domain="keystore".*operation="unlock".*status="success"`, `2`)
	assertBizMetricLine(t, output, `keystore_test_operations_total`,
		`domain="keystore".*operation="unlock".*status="invalid_passphrase"`, `1`)
	assertBizMetricLine(t, output, `keystore_test_operations_total`,
		`domain="keystore".*operation="provider_key_set".*status="locked"`, `1`)
	assertBizMetricLine(t, output, `keystore_test_operations_total`,
		`domain="provider".*operation="verify_openai".*status="rejected"`, `1`)

	assertBizMetricLine(t, output, `keystore_test_operation_duration_seconds_count`,
		`domain="keystore".*operation="unlock".*status="success"`, `2`)
	// One observation under a second, both under 2.5s.
	assertBizMetricLine(t, output, `keystore_test_operation_duration_seconds_bucket`,
		`operation="unlock".*status="success".*le="1"`, `1`)
	assertBizMetricLine(t, output, `keystore_test_operation_duration_seconds_bucket`,
		`operation="unlock".*status="success".*le="2.5"`, `2`)
}
