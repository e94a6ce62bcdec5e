package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	validation "github.com/jellydator/validation"
)

// SnapshotPayload is the exported form of one AEAD encrypted provider key.
type SnapshotPayload struct {
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

// Snapshot is the export document of the whole keystore:
//
//	{ "version": 1, "meta": {"version","salt","iterations"},
//	  "data": { "<provider>": {"iv","ciphertext"} | null } }
//
// Binary fields are standard base64. Ciphertexts are opaque; importing does not need the
// passphrase, only unlocking afterwards does.
type Snapshot struct {
	Version int                           `json:"version"`
	Meta    Metadata                      `json:"meta"`
	Data    map[Provider]*SnapshotPayload `json:"data"`
}

// NewSnapshot builds a snapshot with a null entry for every provider.
func NewSnapshot(meta Metadata) *Snapshot {
	data := make(map[Provider]*SnapshotPayload, len(Providers))
	for _, p := range Providers {
		data[p] = nil
	}
	return &Snapshot{Version: FormatVersion, Meta: meta, Data: data}
}

// Validate checks the document version, metadata and every provider entry.
func (s *Snapshot) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.Version,
			validation.Required,
			validation.In(FormatVersion).Error("unsupported version"),
		),
		validation.Field(&s.Data, validation.NotNil),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Meta.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for provider, payload := range s.Data {
		if !provider.Valid() {
			return fmt.Errorf("%w: unknown provider %q", ErrInvalidSnapshot, provider)
		}
		if payload == nil {
			continue
		}
		secret := AEADSecret{IV: payload.IV, Ciphertext: payload.Ciphertext}
		if err := secret.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, provider, err)
		}
	}
	return nil
}

// Secret returns the provider entry as an AEADSecret, or nil when it is null or absent.
func (s *Snapshot) Secret(p Provider) *AEADSecret {
	payload := s.Data[p]
	if payload == nil {
		return nil
	}
	return &AEADSecret{IV: payload.IV, Ciphertext: payload.Ciphertext}
}

// ParseSnapshot strictly decodes and validates an export document.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var s Snapshot
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidSnapshot)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
