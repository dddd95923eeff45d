package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

// keyringService implements the KeyringService interface on top of a SubtleCrypto engine
type keyringService struct {
	engine  crypto.SubtleCrypto
	keyRepo keys.KeyRepository
	logger  logger.Logger
}

// NewKeyringService creates a new keyringService instance
func NewKeyringService(engine crypto.SubtleCrypto, keyRepo keys.KeyRepository, logger logger.Logger) (keys.KeyringService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if keyRepo == nil {
		return nil, fmt.Errorf("key repository cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &keyringService{
		engine:  engine,
		keyRepo: keyRepo,
		logger:  logger,
	}, nil
}

// Generate creates a random key and stores it. Stored keys are always extractable.
func (s *keyringService) Generate(ctx context.Context, request *keys.GenerateRequest) (*keys.KeyMeta, error) {
	algorithm := crypto.AlgorithmObject(map[string]any{
		"name":   request.Algorithm,
		"length": request.Length,
	})

	key, err := s.engine.GenerateKey(ctx, algorithm, true, request.Usages).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	return s.store(ctx, request.Name, key)
}

// Import validates key material through the engine and stores it
func (s *keyringService) Import(ctx context.Context, request *keys.ImportRequest) (*keys.KeyMeta, error) {
	key, err := s.engine.ImportKey(ctx, request.Format, request.KeyData, crypto.AlgorithmName(request.Algorithm), true, request.Usages).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to import key: %w", err)
	}

	return s.store(ctx, request.Name, key)
}

func (s *keyringService) store(ctx context.Context, name string, key *crypto.CryptoKey) (*keys.KeyMeta, error) {
	exported, err := s.engine.ExportKey(ctx, crypto.KeyFormatJwk, key).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export key for storage: %w", err)
	}

	usages := make([]string, 0, len(key.Usages()))
	for _, usage := range key.Usages() {
		usages = append(usages, string(usage))
	}

	meta := &keys.KeyMeta{
		ID:              key.ID(),
		Name:            name,
		Algorithm:       key.Algorithm().Name,
		KeySize:         key.Algorithm().Length,
		Type:            string(key.Type()),
		Extractable:     key.Extractable(),
		Usages:          usages,
		DateTimeCreated: time.Now(),
	}

	if err := s.keyRepo.Create(ctx, meta, exported.JWK); err != nil {
		return nil, err
	}

	s.logger.Info("Stored ", meta.Algorithm, " key with id ", meta.ID)
	return meta, nil
}

// List retrieves key metadata considering a query filter when set
func (s *keyringService) List(ctx context.Context, query *keys.KeyMetaQuery) ([]*keys.KeyMeta, error) {
	return s.keyRepo.List(ctx, query)
}

// GetByID retrieves the metadata of a key by its unique ID
func (s *keyringService) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	return s.keyRepo.GetByID(ctx, keyID)
}

// Load rehydrates a stored key by importing its JWK again. The returned key has a new ID.
func (s *keyringService) Load(ctx context.Context, keyID string) (*crypto.CryptoKey, error) {
	meta, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	material, err := s.keyRepo.GetMaterialByID(ctx, keyID)
	if err != nil {
		return nil, err
	}

	usages := make([]crypto.KeyUsage, len(meta.Usages))
	for i, usage := range meta.Usages {
		usages[i] = crypto.KeyUsage(usage)
	}

	key, err := s.engine.ImportKey(ctx, crypto.KeyFormatJwk, crypto.JWKKeyData(material), crypto.AlgorithmName(meta.Algorithm), meta.Extractable, usages).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load key %s: %w", keyID, err)
	}
	return key, nil
}

// Export serializes a stored key in the requested format
func (s *keyringService) Export(ctx context.Context, keyID string, format crypto.KeyFormat) (*crypto.ExportedKey, error) {
	key, err := s.Load(ctx, keyID)
	if err != nil {
		return nil, err
	}

	exported, err := s.engine.ExportKey(ctx, format, key).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export key %s: %w", keyID, err)
	}

	s.logger.Info("Exported key with id ", keyID)
	return exported, nil
}

// Delete removes a key and its material
func (s *keyringService) Delete(ctx context.Context, keyID string) error {
	return s.keyRepo.DeleteByID(ctx, keyID)
}
