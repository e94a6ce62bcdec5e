// Package domain defines the core types of the credential keystore: supported providers,
// keystore metadata, the persisted secret formats and the export snapshot.
package domain

import (
	"encoding/json"
	"fmt"

	validation "github.com/jellydator/validation"
)

// Metadata describes how the keystore key is derived from the passphrase.
//
// Metadata is not sensitive. It is written once when the passphrase is first set and
// replaced only by a passphrase change or an import. Salt is encoded as standard base64
// in JSON.
type Metadata struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Iterations int    `json:"iterations"`
}

// Validate checks that the metadata can be used for key derivation.
func (m *Metadata) Validate() error {
	err := validation.ValidateStruct(m,
		validation.Field(&m.Version,
			validation.Required,
			validation.In(FormatVersion).Error("unsupported version"),
		),
		validation.Field(&m.Salt,
			validation.Required,
			validation.Length(MinSaltSize, 0),
		),
		validation.Field(&m.Iterations,
			validation.Required,
			validation.Min(MinIterations),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return nil
}

// Encode serializes the metadata for storage.
func (m *Metadata) Encode() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(b), nil
}

// ParseMetadata decodes and validates stored metadata.
func ParseMetadata(raw string) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
