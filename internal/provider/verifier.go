package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// Default provider API base URLs.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"
	DefaultClaudeBaseURL = "https://api.anthropic.com/v1"

	// AnthropicVersion is sent with every Claude request.
	AnthropicVersion = "2023-06-01"

	DefaultVerifyTimeout = 10 * time.Second
)

// Verifier checks whether an API key is accepted by its provider.
type Verifier interface {
	// Verify returns nil when the provider accepts apiKey, ErrKeyRejected when it answers
	// with a non-success status, and a wrapped transport error otherwise.
	Verify(ctx context.Context, provider keystoreDomain.Provider, apiKey string) error
}

// VerifierConfig configures the provider endpoints used for verification.
type VerifierConfig struct {
	OpenAIBaseURL string
	GroqBaseURL   string
	GeminiBaseURL string
	ClaudeBaseURL string
	Timeout       time.Duration
}

// DefaultVerifierConfig returns the public provider endpoints.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		OpenAIBaseURL: DefaultOpenAIBaseURL,
		GroqBaseURL:   DefaultGroqBaseURL,
		GeminiBaseURL: DefaultGeminiBaseURL,
		ClaudeBaseURL: DefaultClaudeBaseURL,
		Timeout:       DefaultVerifyTimeout,
	}
}

// HTTPVerifier verifies keys by listing models, which authenticates without generating content.
type HTTPVerifier struct {
	config VerifierConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPVerifier creates an HTTPVerifier. Empty base URLs fall back to the defaults.
func NewHTTPVerifier(config VerifierConfig, logger *slog.Logger) *HTTPVerifier {
	defaults := DefaultVerifierConfig()
	if config.OpenAIBaseURL == "" {
		config.OpenAIBaseURL = defaults.OpenAIBaseURL
	}
	if config.GroqBaseURL == "" {
		config.GroqBaseURL = defaults.GroqBaseURL
	}
	if config.GeminiBaseURL == "" {
		config.GeminiBaseURL = defaults.GeminiBaseURL
	}
	if config.ClaudeBaseURL == "" {
		config.ClaudeBaseURL = defaults.ClaudeBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &HTTPVerifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Verify implements Verifier.
func (v *HTTPVerifier) Verify(ctx context.Context, provider keystoreDomain.Provider, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrEmptyAPIKey
	}

	req, err := v.newRequest(ctx, provider, apiKey)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "failed to reach %s", provider)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Debug("provider rejected api key",
			slog.String("provider", provider.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		return apperrors.Wrapf(ErrKeyRejected, "%s returned status %d", provider, resp.StatusCode)
	}
	return nil
}

func (v *HTTPVerifier) newRequest(
	ctx context.Context,
	provider keystoreDomain.Provider,
	apiKey string,
) (*http.Request, error) {
	switch provider {
	case keystoreDomain.OpenAI, keystoreDomain.Groq:
		baseURL := v.config.OpenAIBaseURL
		if provider == keystoreDomain.Groq {
			baseURL = v.config.GroqBaseURL
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL(baseURL), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		return req, nil

	case keystoreDomain.Gemini:
		endpoint := modelsURL(v.config.GeminiBaseURL) + "?key=" + url.QueryEscape(apiKey)
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)

	case keystoreDomain.Claude:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL(v.config.ClaudeBaseURL), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", AnthropicVersion)
		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", keystoreDomain.ErrUnknownProvider, provider)
	}
}

func modelsURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/models"
}
