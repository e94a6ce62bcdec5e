package sealer

import (
	"context"
	"encoding/base64"

	"github.com/allisson/omnichat/internal/errors"
)

// Keeper is the subset of *secrets.Keeper used for sealing.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeeperSealer seals through a KMS keeper.
type KeeperSealer struct {
	keeper Keeper
}

// NewKeeperSealer wraps keeper. The sealer owns the keeper and closes it on Close.
func NewKeeperSealer(keeper Keeper) *KeeperSealer {
	return &KeeperSealer{keeper: keeper}
}

// Seal implements Sealer.
func (s *KeeperSealer) Seal(ctx context.Context, plaintext string) (*Payload, error) {
	ciphertext, err := s.keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return nil, errors.Wrap(err, "failed to seal with KMS keeper")
	}
	return &Payload{Ciphertext: base64.StdEncoding.EncodeToString(ciphertext)}, nil
}

// Open implements Sealer.
func (s *KeeperSealer) Open(ctx context.Context, payload *Payload) (string, error) {
	if payload == nil || payload.IV != "" {
		return "", ErrInvalidPayload
	}
	ciphertext, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPayload, "ciphertext is not valid base64")
	}

	plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", ErrOpenFailed
	}
	return string(plaintext), nil
}

// Close implements Sealer.
func (s *KeeperSealer) Close() error {
	return s.keeper.Close()
}
