package domain

// Algorithm represents an AEAD cipher.
//
// Keystore secrets are always AESGCM so that exported documents stay readable by the
// browser client. ChaCha20 is available to the server-side sealer.
type Algorithm string

const (
	// AESGCM is AES-256-GCM with a 12-byte nonce and a 16-byte tag.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305 with a 12-byte nonce and a 16-byte tag.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts an algorithm name into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
