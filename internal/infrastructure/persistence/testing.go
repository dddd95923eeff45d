//go:build integration
// +build integration

package persistence

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/config"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Test constants
const (
	TestKeySize128 = 128
	TestKeySize256 = 256

	TestAlgorithmCBC = crypto.AlgorithmAESCBC
	TestAlgorithmCTR = crypto.AlgorithmAESCTR
)

// TestContext holds test database and repositories
type TestContext struct {
	DB      *gorm.DB
	KeyRepo keys.KeyRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	require.NoError(t, Migrate(db), "Failed to migrate schema")

	keyRepo, err := NewGormKeyRepository(db, testutil.SetupTestLogger(t))
	require.NoError(t, err, "Failed to create key repository")

	return &TestContext{
		DB:      db,
		KeyRepo: keyRepo,
	}
}

// CreateTestKey creates test key metadata with default values
func CreateTestKey(t *testing.T, name string) *keys.KeyMeta {
	t.Helper()

	return CreateTestKeyWithOptions(t, name, TestAlgorithmCBC, TestKeySize256)
}

// CreateTestKeyWithOptions creates test key metadata with custom options
func CreateTestKeyWithOptions(t *testing.T, name, algorithm string, keySize uint16) *keys.KeyMeta {
	t.Helper()

	return &keys.KeyMeta{
		ID:              uuid.NewString(),
		Name:            name,
		Algorithm:       algorithm,
		KeySize:         keySize,
		Type:            string(crypto.KeyTypeSecret),
		Extractable:     true,
		Usages:          []string{string(crypto.UsageEncrypt), string(crypto.UsageDecrypt)},
		DateTimeCreated: time.Now(),
	}
}

// CreateTestJWK returns a symmetric JWK matching meta
func CreateTestJWK(t *testing.T, meta *keys.KeyMeta) *crypto.JSONWebKey {
	t.Helper()

	ext := meta.Extractable
	return &crypto.JSONWebKey{
		Kty:    crypto.JWKKeyTypeOctet,
		Alg:    fmt.Sprintf("A%d%s", meta.KeySize, strings.TrimPrefix(meta.Algorithm, "AES-")),
		K:      crypto.EncodeJWKBytes(make([]byte, int(meta.KeySize)/8)),
		Ext:    &ext,
		KeyOps: meta.Usages,
	}
}
