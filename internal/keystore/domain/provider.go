package domain

import (
	"strings"
)

// Provider identifies an external LLM backend whose API key is kept in the keystore.
type Provider string

const (
	// OpenAI is the OpenAI API.
	OpenAI Provider = "openai"
	// Gemini is the Google Gemini API.
	Gemini Provider = "gemini"
	// Groq is the Groq API.
	Groq Provider = "groq"
	// Claude is the Anthropic API.
	Claude Provider = "claude"
)

// Providers lists every supported provider in a stable order.
var Providers = []Provider{OpenAI, Gemini, Groq, Claude}

// ParseProvider converts a provider name into a Provider.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", ErrUnknownProvider
	}
	return p, nil
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case OpenAI, Gemini, Groq, Claude:
		return true
	default:
		return false
	}
}

// String returns the provider name.
func (p Provider) String() string {
	return string(p)
}

// EntryName returns the storage entry name holding the provider's encrypted key.
func (p Provider) EntryName() string {
	return providerEntryPrefix + string(p) + providerEntrySuffix
}
