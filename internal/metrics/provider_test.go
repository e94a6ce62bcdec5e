package metrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("omnichat")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	assert.Equal(t, "omnichat", provider.Namespace())
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())
}

func TestProvider_RuntimeCollectors(t *testing.T) {
	provider, err := NewProvider("omnichat")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	output := scrape(t, provider)
	assert.Contains(t, output, "go_goroutines")
	assert.Contains(t, output, "go_memstats_alloc_bytes")
}

func TestProvider_ExportsApplicationMetrics(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider("omnichat")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(ctx))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	require.NoError(t, err)
	bm.RecordOperation(ctx, "keystore", "export", StatusNotConfigured)

	assertBizMetricLine(t, scrape(t, provider), `omnichat_operations_total`,
		`domain="keystore".*operation="export".*status="not_configured"`, `1`)
}

func TestProvider_RegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	provider, err := NewProvider("omnichat")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	require.NoError(t, provider.RegisterDBStats(db, "sqlite3"))
	assert.Contains(t, scrape(t, provider), `go_sql_open_connections{db_name="sqlite3"}`)

	assert.Error(t, provider.RegisterDBStats(db, "sqlite3"))
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("flushes meter provider", func(t *testing.T) {
		provider, err := NewProvider("omnichat")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("without meter provider", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
