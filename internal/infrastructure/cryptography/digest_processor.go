package cryptography

import (
	"fmt"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

type digestProcessor struct {
	logger logger.Logger
}

// NewDigestProcessor creates and returns a new instance of digestProcessor
func NewDigestProcessor(logger logger.Logger) (cryptoalg.DigestProcessor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &digestProcessor{logger: logger}, nil
}

// Digest hashes data. Unknown algorithms are not supported; hashing itself cannot fail.
func (d *digestProcessor) Digest(algorithm crypto.DigestAlgorithm, data []byte) ([]byte, error) {
	hashFunc, err := algorithm.HashFunc()
	if err != nil {
		return nil, err
	}
	h := hashFunc()
	h.Write(data)

	d.logger.Debug("Computed ", algorithm.AlgorithmName(), " digest")
	return h.Sum(nil), nil
}
