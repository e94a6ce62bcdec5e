package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetadata() Metadata {
	return Metadata{
		Version:    FormatVersion,
		Salt:       []byte("0123456789abcdef"),
		Iterations: DefaultIterations,
	}
}

func TestMetadata_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := validMetadata()
		assert.NoError(t, m.Validate())
	})

	t.Run("wrong version", func(t *testing.T) {
		m := validMetadata()
		m.Version = 2
		assert.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
	})

	t.Run("short salt", func(t *testing.T) {
		m := validMetadata()
		m.Salt = []byte("short")
		assert.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
	})

	t.Run("too few iterations", func(t *testing.T) {
		m := validMetadata()
		m.Iterations = MinIterations - 1
		assert.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
	})

	t.Run("zero values", func(t *testing.T) {
		m := Metadata{}
		err := m.Validate()
		require.ErrorIs(t, err, ErrInvalidMetadata)
		assert.Contains(t, err.Error(), "version")
		assert.Contains(t, err.Error(), "salt")
		assert.Contains(t, err.Error(), "iterations")
	})
}

func TestMetadata_EncodeParse(t *testing.T) {
	m := validMetadata()

	raw, err := m.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"salt":"MDEyMzQ1Njc4OWFiY2RlZg==","iterations":210000}`, raw)

	parsed, err := ParseMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, &m, parsed)
}

func TestParseMetadata_Invalid(t *testing.T) {
	_, err := ParseMetadata("not json")
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = ParseMetadata(`{"version":1,"salt":"c2FsdA==","iterations":210000}`)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}
