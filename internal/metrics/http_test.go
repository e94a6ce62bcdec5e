package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeystoreRouter(t *testing.T, provider *Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "keystore_test"))
	router.GET("/v1/keystore", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"state": "locked"})
	})
	router.GET("/v1/keys/:provider", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"provider": c.Param("provider"), "has_key": false})
	})
	router.PUT("/v1/keys/:provider", func(c *gin.Context) {
		c.JSON(http.StatusLocked, gin.H{"error": "keystore_locked"})
	})
	return router
}

func serve(router *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	provider, err := NewProvider("keystore_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := newKeystoreRouter(t, provider)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/keystore"))
	for _, p := range []string{"openai", "gemini", "groq", "claude"} {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/keys/"+p))
	}
	assert.Equal(t, http.StatusLocked, serve(router, http.MethodPut, "/v1/keys/openai"))
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/v1/unknown"))

	output := scrape(t, provider)

	t.Run("route patterns instead of raw paths", func(t *testing.T) {
		assertBizMetricLine(t, output, `keystore_test_http_requests_total`,
			`method="GET".*path="/v1/keys/:provider".*status_code="200"`, `4`)
		assert.NotContains(t, output, `path="/v1/keys/openai"`)
	})

	t.Run("status codes", func(t *testing.T) {
		assertBizMetricLine(t, output, `keystore_test_http_requests_total`,
			`method="PUT".*path="/v1/keys/:provider".*status_code="423"`, `1`)
		assertBizMetricLine(t, output, `keystore_test_http_requests_total`,
			`method="GET".*path="unknown".*status_code="404"`, `1`)
	})

	t.Run("durations", func(t *testing.T) {
		assertBizMetricLine(t, output, `keystore_test_http_request_duration_seconds_count`,
			`method="GET".*path="/v1/keystore".*status_code="200"`, `1`)
	})

	t.Run("in flight returns to zero", func(t *testing.T) {
		assertBizMetricLine(t, output, `keystore_test_http_requests_in_flight`,
			`path="/v1/keys/:provider"`, `0`)
	})
}

func TestHTTPMetricsMiddleware_InFlightDuringRequest(t *testing.T) {
	provider, err := NewProvider("keystore_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "keystore_test"))

	var during string
	router.POST("/v1/keystore/unlock", func(c *gin.Context) {
		during = scrape(t, provider)
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, "/v1/keystore/unlock"))
	assertBizMetricLine(t, during, `keystore_test_http_requests_in_flight`,
		`path="/v1/keystore/unlock"`, `1`)
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "provider key route", input: "/v1/keys/:provider", expected: "/v1/keys/:provider"},
		{name: "server key route", input: "/v1/server-keys/:provider", expected: "/v1/server-keys/:provider"},
		{name: "unmatched", input: "", expected: "unknown"},
		{name: "root", input: "/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}
