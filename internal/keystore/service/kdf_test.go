package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

func testMetadata(salt string) *keystoreDomain.Metadata {
	return &keystoreDomain.Metadata{
		Version:    keystoreDomain.FormatVersion,
		Salt:       []byte(salt),
		Iterations: keystoreDomain.MinIterations,
	}
}

func TestNewPBKDF2Deriver(t *testing.T) {
	t.Run("keeps configured values", func(t *testing.T) {
		d := NewPBKDF2Deriver(300_000, 32)
		assert.Equal(t, 300_000, d.iterations)
		assert.Equal(t, 32, d.saltSize)
	})

	t.Run("raises values below minimums", func(t *testing.T) {
		d := NewPBKDF2Deriver(1000, 4)
		assert.Equal(t, keystoreDomain.MinIterations, d.iterations)
		assert.Equal(t, keystoreDomain.MinSaltSize, d.saltSize)
	})
}

func TestPBKDF2Deriver_DeriveKey(t *testing.T) {
	d := NewPBKDF2Deriver(keystoreDomain.DefaultIterations, keystoreDomain.DefaultSaltSize)

	t.Run("known answer", func(t *testing.T) {
		key, err := d.DeriveKey("correct horse battery", testMetadata("0123456789abcdef"))
		require.NoError(t, err)
		assert.Equal(t,
			"84b9def13a2e1824d08080973365259e0b863c5264eb0cd4c1a69f09b491fb5f",
			hex.EncodeToString(key),
		)
	})

	t.Run("deterministic for same inputs", func(t *testing.T) {
		meta := testMetadata("fedcba9876543210")
		key1, err := d.DeriveKey("passphrase-one", meta)
		require.NoError(t, err)
		key2, err := d.DeriveKey("passphrase-one", meta)
		require.NoError(t, err)
		assert.Equal(t, key1, key2)
		assert.Len(t, key1, keystoreDomain.KeySize)
	})

	t.Run("different salt gives different key", func(t *testing.T) {
		key1, err := d.DeriveKey("passphrase-one", testMetadata("aaaaaaaaaaaaaaaa"))
		require.NoError(t, err)
		key2, err := d.DeriveKey("passphrase-one", testMetadata("bbbbbbbbbbbbbbbb"))
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("different passphrase gives different key", func(t *testing.T) {
		meta := testMetadata("aaaaaaaaaaaaaaaa")
		key1, err := d.DeriveKey("passphrase-one", meta)
		require.NoError(t, err)
		key2, err := d.DeriveKey("passphrase-two", meta)
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("nil metadata", func(t *testing.T) {
		_, err := d.DeriveKey("passphrase-one", nil)
		assert.ErrorIs(t, err, keystoreDomain.ErrInvalidMetadata)
	})

	t.Run("weak metadata rejected", func(t *testing.T) {
		meta := testMetadata("aaaaaaaaaaaaaaaa")
		meta.Iterations = 1000
		_, err := d.DeriveKey("passphrase-one", meta)
		assert.ErrorIs(t, err, keystoreDomain.ErrInvalidMetadata)
	})
}

func TestPBKDF2Deriver_NewMetadata(t *testing.T) {
	d := NewPBKDF2Deriver(keystoreDomain.DefaultIterations, 24)

	meta1, err := d.NewMetadata()
	require.NoError(t, err)
	meta2, err := d.NewMetadata()
	require.NoError(t, err)

	assert.Equal(t, keystoreDomain.FormatVersion, meta1.Version)
	assert.Equal(t, keystoreDomain.DefaultIterations, meta1.Iterations)
	assert.Len(t, meta1.Salt, 24)
	assert.NotEqual(t, meta1.Salt, meta2.Salt)
	assert.NoError(t, meta1.Validate())
}
