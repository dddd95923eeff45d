//go:build integration
// +build integration

package app

import (
	"testing"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/persistence"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/taskqueue"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	Engine         crypto.SubtleCrypto
	KeyringService keys.KeyringService

	DBContext *persistence.TestContext
}

// SetupTestServices wires the engine and the keyring over a fresh database
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	pool, err := taskqueue.NewWorkerPool(taskqueue.Config{WorkerCount: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	aesProcessor, err := cryptography.NewAESProcessor(logger)
	require.NoError(t, err)
	pbkdf2Processor, err := cryptography.NewPBKDF2Processor(logger)
	require.NoError(t, err)
	digestProcessor, err := cryptography.NewDigestProcessor(logger)
	require.NoError(t, err)

	engine, err := NewSubtleCryptoService(pool, aesProcessor, pbkdf2Processor, digestProcessor, logger)
	require.NoError(t, err)

	keyringService, err := NewKeyringService(engine, dbContext.KeyRepo, logger)
	require.NoError(t, err)

	return &TestServices{
		Engine:         engine,
		KeyringService: keyringService,
		DBContext:      dbContext,
	}
}
