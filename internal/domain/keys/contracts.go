package keys

import (
	"context"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
)

// GenerateRequest describes a key to be generated and stored
type GenerateRequest struct {
	Name      string
	Algorithm string
	Length    uint16
	Usages    []crypto.KeyUsage
}

// ImportRequest describes externally supplied key material to be stored
type ImportRequest struct {
	Name      string
	Format    crypto.KeyFormat
	KeyData   crypto.KeyData
	Algorithm string
	Usages    []crypto.KeyUsage
}

// KeyringService keeps extractable AES keys across process restarts. Keys enter and
// leave the keyring only through the SubtleCrypto engine.
type KeyringService interface {
	// Generate creates a random key and stores it.
	Generate(ctx context.Context, request *GenerateRequest) (*KeyMeta, error)

	// Import validates key material through the engine and stores it.
	Import(ctx context.Context, request *ImportRequest) (*KeyMeta, error)

	// List retrieves key metadata considering a query filter when set.
	List(ctx context.Context, query *KeyMetaQuery) ([]*KeyMeta, error)

	// GetByID retrieves the metadata of a key by its unique ID.
	GetByID(ctx context.Context, keyID string) (*KeyMeta, error)

	// Load rehydrates a stored key into a CryptoKey usable with the engine.
	Load(ctx context.Context, keyID string) (*crypto.CryptoKey, error)

	// Export serializes a stored key in the requested format.
	Export(ctx context.Context, keyID string, format crypto.KeyFormat) (*crypto.ExportedKey, error)

	// Delete removes a key and its material.
	Delete(ctx context.Context, keyID string) error
}

// KeyRepository persists key metadata together with the key material as a JWK
type KeyRepository interface {
	Create(ctx context.Context, meta *KeyMeta, jwk *crypto.JSONWebKey) error
	List(ctx context.Context, query *KeyMetaQuery) ([]*KeyMeta, error)
	GetByID(ctx context.Context, keyID string) (*KeyMeta, error)
	GetMaterialByID(ctx context.Context, keyID string) (*crypto.JSONWebKey, error)
	DeleteByID(ctx context.Context, keyID string) error
}
