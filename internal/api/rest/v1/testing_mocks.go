//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/async"

	"github.com/stretchr/testify/mock"
)

// MockSubtleCrypto is a mock implementation of SubtleCrypto
type MockSubtleCrypto struct {
	mock.Mock
}

func (m *MockSubtleCrypto) Encrypt(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte] {
	args := m.Called(ctx, algorithm, key, data)
	return args.Get(0).(*async.Promise[[]byte])
}

func (m *MockSubtleCrypto) Decrypt(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte] {
	args := m.Called(ctx, algorithm, key, data)
	return args.Get(0).(*async.Promise[[]byte])
}

func (m *MockSubtleCrypto) Digest(ctx context.Context, algorithm crypto.AlgorithmIdentifier, data []byte) *async.Promise[[]byte] {
	args := m.Called(ctx, algorithm, data)
	return args.Get(0).(*async.Promise[[]byte])
}

func (m *MockSubtleCrypto) GenerateKey(ctx context.Context, algorithm crypto.AlgorithmIdentifier, extractable bool, usages []crypto.KeyUsage) *async.Promise[*crypto.CryptoKey] {
	args := m.Called(ctx, algorithm, extractable, usages)
	return args.Get(0).(*async.Promise[*crypto.CryptoKey])
}

func (m *MockSubtleCrypto) DeriveBits(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, length *uint32) *async.Promise[[]byte] {
	args := m.Called(ctx, algorithm, key, length)
	return args.Get(0).(*async.Promise[[]byte])
}

func (m *MockSubtleCrypto) ImportKey(ctx context.Context, format crypto.KeyFormat, keyData crypto.KeyData, algorithm crypto.AlgorithmIdentifier, extractable bool, usages []crypto.KeyUsage) *async.Promise[*crypto.CryptoKey] {
	args := m.Called(ctx, format, keyData, algorithm, extractable, usages)
	return args.Get(0).(*async.Promise[*crypto.CryptoKey])
}

func (m *MockSubtleCrypto) ExportKey(ctx context.Context, format crypto.KeyFormat, key *crypto.CryptoKey) *async.Promise[*crypto.ExportedKey] {
	args := m.Called(ctx, format, key)
	return args.Get(0).(*async.Promise[*crypto.ExportedKey])
}

// MockKeyringService is a mock implementation of KeyringService
type MockKeyringService struct {
	mock.Mock
}

func (m *MockKeyringService) Generate(ctx context.Context, request *keys.GenerateRequest) (*keys.KeyMeta, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyringService) Import(ctx context.Context, request *keys.ImportRequest) (*keys.KeyMeta, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyringService) List(ctx context.Context, query *keys.KeyMetaQuery) ([]*keys.KeyMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyringService) GetByID(ctx context.Context, keyID string) (*keys.KeyMeta, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keys.KeyMeta), args.Error(1)
}

func (m *MockKeyringService) Load(ctx context.Context, keyID string) (*crypto.CryptoKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crypto.CryptoKey), args.Error(1)
}

func (m *MockKeyringService) Export(ctx context.Context, keyID string, format crypto.KeyFormat) (*crypto.ExportedKey, error) {
	args := m.Called(ctx, keyID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crypto.ExportedKey), args.Error(1)
}

func (m *MockKeyringService) Delete(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}
