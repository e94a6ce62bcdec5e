package domain

// Storage entry names. They match the names used by the browser client so an existing
// local store can be served without rewriting its entries.
const (
	// MetadataEntryName holds the JSON encoded keystore Metadata.
	MetadataEntryName = "ai-workbench-keystore-meta"

	// LegacyKeyEntryName holds the hex key material of the legacy XOR scheme.
	LegacyKeyEntryName = "ai-workbench-encryption-key"

	providerEntryPrefix = "ai-workbench-"
	providerEntrySuffix = "-api-key"
)

// Keystore format and key derivation parameters.
const (
	// FormatVersion is the only metadata and snapshot version understood by this keystore.
	FormatVersion = 1

	// DefaultIterations is the PBKDF2 work factor used for new keystores.
	DefaultIterations = 210_000

	// MinIterations is the smallest PBKDF2 work factor accepted from metadata or imports.
	MinIterations = 100_000

	// DefaultSaltSize is the size in bytes of the salt generated for new keystores.
	DefaultSaltSize = 16

	// MinSaltSize is the smallest salt accepted from metadata or imports.
	MinSaltSize = 16

	// KeySize is the size in bytes of the derived AES-256 key.
	KeySize = 32

	// NonceSize is the AES-GCM nonce size in bytes.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size in bytes.
	TagSize = 16

	// MinPassphraseLength is the minimum passphrase length in characters.
	MinPassphraseLength = 8

	// LegacyKeySize is the number of random bytes behind the hex legacy key.
	LegacyKeySize = 32
)
