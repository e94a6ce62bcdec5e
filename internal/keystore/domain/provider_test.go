package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{input: "openai", want: OpenAI},
		{input: "Gemini", want: Gemini},
		{input: " groq ", want: Groq},
		{input: "CLAUDE", want: Claude},
		{input: "mistral", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownProvider)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_EntryName(t *testing.T) {
	assert.Equal(t, "ai-workbench-openai-api-key", OpenAI.EntryName())
	assert.Equal(t, "ai-workbench-claude-api-key", Claude.EntryName())
}

func TestProviders(t *testing.T) {
	assert.Equal(t, []Provider{OpenAI, Gemini, Groq, Claude}, Providers)
	for _, p := range Providers {
		assert.True(t, p.Valid())
	}
	assert.False(t, Provider("unknown").Valid())
}
