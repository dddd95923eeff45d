package crypto

import (
	"context"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/async"
)

// SubtleCrypto is the asynchronous cryptography engine. Every call validates its
// algorithm descriptor and copies its inputs before returning, then settles the
// returned promise exactly once from a scheduled task.
type SubtleCrypto interface {
	// Encrypt encrypts data with key under the AES-CBC or AES-CTR parameters in algorithm.
	Encrypt(ctx context.Context, algorithm AlgorithmIdentifier, key *CryptoKey, data []byte) *async.Promise[[]byte]

	// Decrypt reverses Encrypt.
	Decrypt(ctx context.Context, algorithm AlgorithmIdentifier, key *CryptoKey, data []byte) *async.Promise[[]byte]

	// Digest hashes data with one of SHA-1, SHA-256, SHA-384 or SHA-512.
	Digest(ctx context.Context, algorithm AlgorithmIdentifier, data []byte) *async.Promise[[]byte]

	// GenerateKey creates a random AES key.
	GenerateKey(ctx context.Context, algorithm AlgorithmIdentifier, extractable bool, usages []KeyUsage) *async.Promise[*CryptoKey]

	// DeriveBits derives length bits from a PBKDF2 key. A nil length is rejected.
	DeriveBits(ctx context.Context, algorithm AlgorithmIdentifier, key *CryptoKey, length *uint32) *async.Promise[[]byte]

	// ImportKey builds a key from raw bytes or a JWK.
	ImportKey(ctx context.Context, format KeyFormat, keyData KeyData, algorithm AlgorithmIdentifier, extractable bool, usages []KeyUsage) *async.Promise[*CryptoKey]

	// ExportKey serializes an extractable key as raw bytes or a JWK.
	ExportKey(ctx context.Context, format KeyFormat, key *CryptoKey) *async.Promise[*ExportedKey]
}

// Scheduler runs deferred work off the calling goroutine. A task whose ctx is
// done before it starts must not run.
type Scheduler interface {
	Schedule(ctx context.Context, task func()) error
}
