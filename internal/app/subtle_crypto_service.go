package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/async"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

// subtleCryptoService implements the SubtleCrypto interface. Each call normalizes and
// copies its inputs on the caller goroutine, then hands the usage checks and the
// primitive to the scheduler.
type subtleCryptoService struct {
	scheduler crypto.Scheduler
	aes       cryptoalg.AESProcessor
	pbkdf2    cryptoalg.PBKDF2Processor
	digest    cryptoalg.DigestProcessor
	logger    logger.Logger
}

// NewSubtleCryptoService creates a new subtleCryptoService instance
func NewSubtleCryptoService(
	scheduler crypto.Scheduler,
	aesProcessor cryptoalg.AESProcessor,
	pbkdf2Processor cryptoalg.PBKDF2Processor,
	digestProcessor cryptoalg.DigestProcessor,
	logger logger.Logger,
) (crypto.SubtleCrypto, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler cannot be nil")
	}
	if aesProcessor == nil || pbkdf2Processor == nil || digestProcessor == nil {
		return nil, fmt.Errorf("processors cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &subtleCryptoService{
		scheduler: scheduler,
		aes:       aesProcessor,
		pbkdf2:    pbkdf2Processor,
		digest:    digestProcessor,
		logger:    logger,
	}, nil
}

// schedule runs work on the scheduler and settles the returned promise with its outcome.
// When ctx is done before the task starts, the task is dropped and the promise stays pending.
func schedule[T any](ctx context.Context, s *subtleCryptoService, operation crypto.Operation, work func() (T, error)) *async.Promise[T] {
	promise := async.NewPromise[T]()

	err := s.scheduler.Schedule(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(fmt.Sprintf("%s panicked: %v", operation, r))
				promise.Reject(fmt.Errorf("%s panicked: %v", operation, r))
			}
		}()

		value, err := work()
		if err != nil {
			s.logger.Warn(fmt.Sprintf("%s failed: %v", operation, err))
			promise.Reject(err)
			return
		}
		promise.Resolve(value)
	})
	if err != nil {
		promise.Reject(fmt.Errorf("failed to schedule %s: %w", operation, err))
	}

	return promise
}

// Encrypt encrypts data with an AES-CBC or AES-CTR key
func (s *subtleCryptoService) Encrypt(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte] {
	return s.cipher(ctx, crypto.OperationEncrypt, algorithm, key, data)
}

// Decrypt decrypts data with an AES-CBC or AES-CTR key
func (s *subtleCryptoService) Decrypt(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte] {
	return s.cipher(ctx, crypto.OperationDecrypt, algorithm, key, data)
}

func (s *subtleCryptoService) cipher(ctx context.Context, operation crypto.Operation, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, data []byte) *async.Promise[[]byte] {
	normalized, err := crypto.Normalize(algorithm, operation)
	if err != nil {
		return async.Rejected[[]byte](err)
	}
	if key == nil {
		return async.Rejected[[]byte](fmt.Errorf("key cannot be nil"))
	}
	data = slices.Clone(data)

	return schedule(ctx, s, operation, func() ([]byte, error) {
		if err := checkAccess(key, crypto.KeyUsage(operation), normalized); err != nil {
			return nil, err
		}

		switch params := normalized.(type) {
		case crypto.AesCbcParams:
			if operation == crypto.OperationEncrypt {
				return s.aes.EncryptCBC(params.IV, key.Handle(), data)
			}
			return s.aes.DecryptCBC(params.IV, key.Handle(), data)
		case crypto.AesCtrParams:
			return s.aes.CryptCTR(params.Counter, params.Length, key.Handle(), data)
		default:
			return nil, fmt.Errorf("%w: %s cannot %s", crypto.ErrNotSupported, normalized.AlgorithmName(), operation)
		}
	})
}

// Digest hashes data
func (s *subtleCryptoService) Digest(ctx context.Context, algorithm crypto.AlgorithmIdentifier, data []byte) *async.Promise[[]byte] {
	normalized, err := crypto.Normalize(algorithm, crypto.OperationDigest)
	if err != nil {
		return async.Rejected[[]byte](err)
	}
	data = slices.Clone(data)

	return schedule(ctx, s, crypto.OperationDigest, func() ([]byte, error) {
		digest, ok := normalized.(crypto.DigestAlgorithm)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a digest", crypto.ErrNotSupported, normalized.AlgorithmName())
		}
		return s.digest.Digest(digest, data)
	})
}

// GenerateKey creates a random AES key
func (s *subtleCryptoService) GenerateKey(ctx context.Context, algorithm crypto.AlgorithmIdentifier, extractable bool, usages []crypto.KeyUsage) *async.Promise[*crypto.CryptoKey] {
	normalized, err := crypto.Normalize(algorithm, crypto.OperationGenerateKey)
	if err != nil {
		return async.Rejected[*crypto.CryptoKey](err)
	}
	usages = slices.Clone(usages)

	return schedule(ctx, s, crypto.OperationGenerateKey, func() (*crypto.CryptoKey, error) {
		params, ok := normalized.(crypto.AesKeyGenParams)
		if !ok {
			return nil, fmt.Errorf("%w: cannot generate %s keys", crypto.ErrNotSupported, normalized.AlgorithmName())
		}
		return s.aes.GenerateKey(params, extractable, usages)
	})
}

// DeriveBits derives bits from a PBKDF2 key
func (s *subtleCryptoService) DeriveBits(ctx context.Context, algorithm crypto.AlgorithmIdentifier, key *crypto.CryptoKey, length *uint32) *async.Promise[[]byte] {
	normalized, err := crypto.Normalize(algorithm, crypto.OperationDeriveBits)
	if err != nil {
		return async.Rejected[[]byte](err)
	}
	if key == nil {
		return async.Rejected[[]byte](fmt.Errorf("key cannot be nil"))
	}
	if length != nil {
		n := *length
		length = &n
	}

	return schedule(ctx, s, crypto.OperationDeriveBits, func() ([]byte, error) {
		if err := checkAccess(key, crypto.UsageDeriveBits, normalized); err != nil {
			return nil, err
		}

		switch params := normalized.(type) {
		case crypto.Pbkdf2Params:
			return s.pbkdf2.DeriveBits(params, key.Handle(), length)
		default:
			return nil, fmt.Errorf("%w: %s cannot derive bits", crypto.ErrNotSupported, normalized.AlgorithmName())
		}
	})
}

// ImportKey builds an AES or PBKDF2 key from its serialized form
func (s *subtleCryptoService) ImportKey(ctx context.Context, format crypto.KeyFormat, keyData crypto.KeyData, algorithm crypto.AlgorithmIdentifier, extractable bool, usages []crypto.KeyUsage) *async.Promise[*crypto.CryptoKey] {
	normalized, err := crypto.Normalize(algorithm, crypto.OperationImportKey)
	if err != nil {
		return async.Rejected[*crypto.CryptoKey](err)
	}
	keyData = keyData.Clone()
	usages = slices.Clone(usages)

	return schedule(ctx, s, crypto.OperationImportKey, func() (*crypto.CryptoKey, error) {
		switch name := normalized.AlgorithmName(); name {
		case crypto.AlgorithmAESCBC, crypto.AlgorithmAESCTR:
			return s.aes.ImportKey(format, keyData, name, extractable, usages)
		case crypto.AlgorithmPBKDF2:
			return s.pbkdf2.ImportKey(format, keyData, extractable, usages)
		default:
			return nil, fmt.Errorf("%w: cannot import %s keys", crypto.ErrNotSupported, name)
		}
	})
}

// ExportKey serializes an extractable AES key
func (s *subtleCryptoService) ExportKey(ctx context.Context, format crypto.KeyFormat, key *crypto.CryptoKey) *async.Promise[*crypto.ExportedKey] {
	if key == nil {
		return async.Rejected[*crypto.ExportedKey](fmt.Errorf("key cannot be nil"))
	}

	return schedule(ctx, s, crypto.OperationExportKey, func() (*crypto.ExportedKey, error) {
		switch name := key.Algorithm().Name; name {
		case crypto.AlgorithmAESCBC, crypto.AlgorithmAESCTR:
			return s.aes.ExportKey(format, key)
		default:
			return nil, fmt.Errorf("%w: %s keys cannot be exported", crypto.ErrNotSupported, name)
		}
	})
}

// checkAccess is the usage gate: the key must permit usage and be bound to the
// requested algorithm. It never reads key material.
func checkAccess(key *crypto.CryptoKey, usage crypto.KeyUsage, normalized crypto.NormalizedAlgorithm) error {
	if !key.HasUsage(usage) {
		return fmt.Errorf("%w: key does not permit %s", crypto.ErrInvalidAccess, usage)
	}
	if key.Algorithm().Name != normalized.AlgorithmName() {
		return fmt.Errorf("%w: key is bound to %s, not %s", crypto.ErrInvalidAccess, key.Algorithm().Name, normalized.AlgorithmName())
	}
	return nil
}
