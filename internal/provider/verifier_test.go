package provider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *HTTPVerifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHTTPVerifier(VerifierConfig{
		OpenAIBaseURL: server.URL + "/openai/v1",
		GroqBaseURL:   server.URL + "/groq/v1/",
		GeminiBaseURL: server.URL + "/gemini/v1",
		ClaudeBaseURL: server.URL + "/claude/v1",
		Timeout:       time.Second,
	}, logger)
}

func TestNewHTTPVerifier_Defaults(t *testing.T) {
	v := NewHTTPVerifier(VerifierConfig{}, slog.Default())

	assert.Equal(t, DefaultOpenAIBaseURL, v.config.OpenAIBaseURL)
	assert.Equal(t, DefaultGroqBaseURL, v.config.GroqBaseURL)
	assert.Equal(t, DefaultGeminiBaseURL, v.config.GeminiBaseURL)
	assert.Equal(t, DefaultClaudeBaseURL, v.config.ClaudeBaseURL)
	assert.Equal(t, DefaultVerifyTimeout, v.client.Timeout)
}

func TestHTTPVerifier_Verify_RequestShape(t *testing.T) {
	tests := []struct {
		name     string
		provider keystoreDomain.Provider
		check    func(t *testing.T, r *http.Request)
	}{
		{
			name:     "openai uses bearer token",
			provider: keystoreDomain.OpenAI,
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "/openai/v1/models", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			},
		},
		{
			name:     "groq uses bearer token",
			provider: keystoreDomain.Groq,
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "/groq/v1/models", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			},
		},
		{
			name:     "gemini passes key as query parameter",
			provider: keystoreDomain.Gemini,
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "/gemini/v1/models", r.URL.Path)
				assert.Equal(t, "sk-test", r.URL.Query().Get("key"))
				assert.Empty(t, r.Header.Get("Authorization"))
			},
		},
		{
			name:     "claude sends api key and version headers",
			provider: keystoreDomain.Claude,
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "/claude/v1/models", r.URL.Path)
				assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
				assert.Equal(t, AnthropicVersion, r.Header.Get("anthropic-version"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *http.Request
			v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				captured = r.Clone(context.Background())
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"data":[]}`))
			})

			err := v.Verify(context.Background(), tt.provider, "  sk-test  ")
			require.NoError(t, err)
			require.NotNil(t, captured)
			assert.Equal(t, http.MethodGet, captured.Method)
			tt.check(t, captured)
		})
	}
}

func TestHTTPVerifier_Verify_Rejected(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := v.Verify(context.Background(), keystoreDomain.OpenAI, "sk-bad")

	assert.ErrorIs(t, err, ErrKeyRejected)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "status 401")
}

func TestHTTPVerifier_Verify_EmptyKey(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := v.Verify(context.Background(), keystoreDomain.OpenAI, "   ")

	assert.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestHTTPVerifier_Verify_UnknownProvider(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err := v.Verify(context.Background(), keystoreDomain.Provider("mistral"), "sk-test")

	assert.ErrorIs(t, err, keystoreDomain.ErrUnknownProvider)
}

func TestHTTPVerifier_Verify_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	v := NewHTTPVerifier(VerifierConfig{OpenAIBaseURL: baseURL, Timeout: time.Second}, slog.Default())

	err := v.Verify(context.Background(), keystoreDomain.OpenAI, "sk-test")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyRejected)
	assert.Contains(t, err.Error(), "failed to reach openai")
}

func TestHTTPVerifier_Verify_ContextCanceled(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.Verify(ctx, keystoreDomain.Claude, "sk-test")

	assert.ErrorIs(t, err, context.Canceled)
}
