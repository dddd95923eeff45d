package commands

import (
	"fmt"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/app"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/taskqueue"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/config"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// setupEngine builds a subtle crypto engine running on a single worker, so the
// CLI observes the same ordering as the REST binary with default settings.
func setupEngine(log logger.Logger) (crypto.SubtleCrypto, *taskqueue.WorkerPool, error) {
	pool, err := taskqueue.NewWorkerPool(taskqueue.Config{
		WorkerCount:  config.DefaultWorkerCount,
		GlobalBuffer: config.DefaultQueueSize,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	aesProcessor, err := cryptography.NewAESProcessor(log)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create AES processor: %w", err)
	}
	pbkdf2Processor, err := cryptography.NewPBKDF2Processor(log)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create PBKDF2 processor: %w", err)
	}
	digestProcessor, err := cryptography.NewDigestProcessor(log)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create digest processor: %w", err)
	}

	engine, err := app.NewSubtleCryptoService(pool, aesProcessor, pbkdf2Processor, digestProcessor, log)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, pool, nil
}
