package app

import (
	"fmt"

	"github.com/allisson/omnichat/internal/provider"
)

// Verifier returns the provider key verifier.
func (c *Container) Verifier() (provider.Verifier, error) {
	c.verifierInit.Do(func() {
		verifier, err := c.initVerifier()
		if err != nil {
			c.setInitError("verifier", err)
			return
		}
		c.verifier = verifier
	})
	if err := c.initError("verifier"); err != nil {
		return nil, err
	}
	return c.verifier, nil
}

// initVerifier creates the HTTP verifier, wrapped with metrics when enabled.
func (c *Container) initVerifier() (provider.Verifier, error) {
	baseVerifier := provider.NewHTTPVerifier(provider.VerifierConfig{
		OpenAIBaseURL: c.config.ProviderOpenAIBaseURL,
		GroqBaseURL:   c.config.ProviderGroqBaseURL,
		GeminiBaseURL: c.config.ProviderGeminiBaseURL,
		ClaudeBaseURL: c.config.ProviderClaudeBaseURL,
		Timeout:       c.config.ProviderVerifyTimeout,
	}, c.Logger())

	if !c.config.MetricsEnabled {
		return baseVerifier, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for verifier: %w", err)
	}
	return provider.NewVerifierWithMetrics(baseVerifier, businessMetrics), nil
}
