// Package sealer seals provider API keys with a server-held key so they can be handed to
// the browser in an httpOnly cookie and read back by the server only.
//
// The sealing key is either a KMS keeper opened from a gocloud.dev secrets URL or a
// 32-byte key derived from SERVER_ENCRYPTION_SECRET with SHA-256.
package sealer

import (
	"context"
	"encoding/json"

	"github.com/allisson/omnichat/internal/errors"
)

var (
	// ErrSealerNotConfigured indicates neither a KMS key URI nor a server secret is configured.
	//
	// HTTP Status: 412 Precondition Failed
	ErrSealerNotConfigured = errors.Wrap(errors.ErrPreconditionFailed, "server sealing key not configured")

	// ErrInvalidPayload indicates a sealed payload cannot be parsed.
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "invalid sealed payload")

	// ErrOpenFailed indicates a sealed payload did not authenticate under the current key.
	ErrOpenFailed = errors.Wrap(errors.ErrInvalidInput, "failed to open sealed payload")
)

// Payload is a sealed value. IV is empty for keeper-sealed payloads, where the nonce is part
// of the KMS ciphertext.
type Payload struct {
	IV         string `json:"iv,omitempty"`
	Ciphertext string `json:"ciphertext"`
}

// Encode returns the JSON form stored in cookies.
func (p *Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParsePayload parses the JSON form produced by Encode.
func ParsePayload(value string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	if p.Ciphertext == "" {
		return nil, ErrInvalidPayload
	}
	return &p, nil
}

// Sealer seals and opens provider API keys.
type Sealer interface {
	Seal(ctx context.Context, plaintext string) (*Payload, error)
	Open(ctx context.Context, payload *Payload) (string, error)
	Close() error
}

// Config selects and configures the sealing key.
type Config struct {
	// KMSKeyURI takes precedence over Secret when set.
	KMSKeyURI string
	Secret    string
	Algorithm string
}
