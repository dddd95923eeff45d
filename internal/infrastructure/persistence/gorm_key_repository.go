package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormKeyRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormKeyRepository creates a new GORM-based KeyRepository implementation
func NewGormKeyRepository(db *gorm.DB, logger logger.Logger) (keys.KeyRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &gormKeyRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormKeyRepository) Create(ctx context.Context, meta *keys.KeyMeta, jwk *crypto.JSONWebKey) error {
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.KeyModel{}
	model.FromDomain(meta)
	if err := model.SetMaterial(jwk); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	r.logger.Info("Created key metadata with id ", meta.ID)
	return nil
}

func (r *gormKeyRepository) List(ctx context.Context, query *keys.KeyMetaQuery) ([]*keys.KeyMeta, error) {
	if query == nil {
		query = &keys.KeyMetaQuery{}
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.KeyModel
	dbQuery := r.db.WithContext(ctx).Model(&models.KeyModel{})

	if query.Algorithm != "" {
		dbQuery = dbQuery.Where("algorithm = ?", query.Algorithm)
	}
	if !query.DateTimeCreated.IsZero() {
		dbQuery = dbQuery.Where("date_time_created >= ?", query.DateTimeCreated)
	}

	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch key metadata: %w", err)
	}

	domainList := make([]*keys.KeyMeta, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormKeyRepository) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	model, err := r.find(ctx, keyID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *gormKeyRepository) GetMaterialByID(ctx context.Context, keyID string) (*crypto.JSONWebKey, error) {
	model, err := r.find(ctx, keyID)
	if err != nil {
		return nil, err
	}
	return model.MaterialJWK()
}

func (r *gormKeyRepository) DeleteByID(ctx context.Context, keyID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", keyID).Delete(&models.KeyModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", keys.ErrKeyNotFound, keyID)
	}

	r.logger.Info("Deleted key metadata with id ", keyID)
	return nil
}

func (r *gormKeyRepository) find(ctx context.Context, keyID string) (*models.KeyModel, error) {
	var model models.KeyModel
	if err := r.db.WithContext(ctx).Where("id = ?", keyID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", keys.ErrKeyNotFound, keyID)
		}
		return nil, fmt.Errorf("failed to fetch key: %w", err)
	}
	return &model, nil
}
