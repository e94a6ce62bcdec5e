package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"
)

// SecretFormat tags the persisted representation of a provider key.
type SecretFormat string

const (
	// FormatAEADV1 is AES-256-GCM under the passphrase-derived key.
	FormatAEADV1 SecretFormat = "aead-v1"

	// FormatLegacyXOR is the pre-passphrase scheme: plaintext XOR a locally stored random key.
	FormatLegacyXOR SecretFormat = "legacy-xor"
)

// StoredSecret is the persisted form of one provider key. It is either an *AEADSecret or
// a *LegacyXORSecret; callers dispatch with a type switch.
type StoredSecret interface {
	Format() SecretFormat
	storedSecret()
}

// AEADSecret is a provider key encrypted with AES-256-GCM.
// Ciphertext carries the authentication tag appended.
type AEADSecret struct {
	IV         []byte
	Ciphertext []byte
}

// Format returns FormatAEADV1.
func (s *AEADSecret) Format() SecretFormat { return FormatAEADV1 }

func (s *AEADSecret) storedSecret() {}

// Validate checks nonce and ciphertext sizes.
func (s *AEADSecret) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.IV,
			validation.Required,
			validation.Length(NonceSize, NonceSize),
		),
		validation.Field(&s.Ciphertext,
			validation.Required,
			validation.Length(TagSize, 0),
		),
	)
}

// LegacyXORSecret is a provider key obfuscated with the legacy XOR scheme.
// Data is the standard base64 encoding of the XORed bytes.
type LegacyXORSecret struct {
	Data string
}

// Format returns FormatLegacyXOR.
func (s *LegacyXORSecret) Format() SecretFormat { return FormatLegacyXOR }

func (s *LegacyXORSecret) storedSecret() {}

// storedEnvelope is the JSON shape of a persisted secret.
type storedEnvelope struct {
	Format     SecretFormat `json:"format,omitempty"`
	IV         []byte       `json:"iv,omitempty"`
	Ciphertext []byte       `json:"ciphertext,omitempty"`
	Data       string       `json:"data,omitempty"`
}

// EncodeStoredSecret serializes a secret into its tagged JSON envelope.
func EncodeStoredSecret(secret StoredSecret) (string, error) {
	var env storedEnvelope
	switch s := secret.(type) {
	case *AEADSecret:
		env = storedEnvelope{Format: FormatAEADV1, IV: s.IV, Ciphertext: s.Ciphertext}
	case *LegacyXORSecret:
		env = storedEnvelope{Format: FormatLegacyXOR, Data: s.Data}
	default:
		return "", fmt.Errorf("%w: unsupported secret type %T", ErrInvalidStoredSecret, secret)
	}

	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to encode stored secret: %w", err)
	}
	return string(b), nil
}

// ParseStoredSecret decodes a persisted provider entry.
//
// Besides the tagged envelope it accepts the two shapes written by the browser client:
// an untagged {"iv","ciphertext"} object is AEAD v1 and a bare base64 string is legacy XOR.
func ParseStoredSecret(raw string) (StoredSecret, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidStoredSecret)
	}

	var env storedEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		// Not a JSON object: the only other shape ever written is bare legacy base64.
		if _, decodeErr := base64.StdEncoding.DecodeString(trimmed); decodeErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredSecret, err)
		}
		return &LegacyXORSecret{Data: trimmed}, nil
	}

	format := env.Format
	if format == "" && (len(env.IV) > 0 || len(env.Ciphertext) > 0) {
		format = FormatAEADV1
	}

	switch format {
	case FormatAEADV1:
		secret := &AEADSecret{IV: env.IV, Ciphertext: env.Ciphertext}
		if err := secret.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStoredSecret, err)
		}
		return secret, nil
	case FormatLegacyXOR:
		if _, err := base64.StdEncoding.DecodeString(env.Data); err != nil || env.Data == "" {
			return nil, fmt.Errorf("%w: invalid legacy data", ErrInvalidStoredSecret)
		}
		return &LegacyXORSecret{Data: env.Data}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidStoredSecret, format)
	}
}
