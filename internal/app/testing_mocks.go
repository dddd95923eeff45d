//go:build unit
// +build unit

package app

import (
	"context"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"

	"github.com/stretchr/testify/mock"
)

// MockKeyRepository is a mock implementation of KeyRepository
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) Create(ctx context.Context, meta *keys.KeyMeta, jwk *crypto.JSONWebKey) error {
	args := m.Called(ctx, meta, jwk)
	return args.Error(0)
}

func (m *MockKeyRepository) List(ctx context.Context, query *keys.KeyMetaQuery) ([]*keys.KeyMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyRepository) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyRepository) GetMaterialByID(ctx context.Context, keyID string) (*crypto.JSONWebKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crypto.JSONWebKey), args.Error(1)
}

func (m *MockKeyRepository) DeleteByID(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}
