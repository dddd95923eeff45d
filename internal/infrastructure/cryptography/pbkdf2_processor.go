package cryptography

import (
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

var pbkdf2Usages = []crypto.KeyUsage{crypto.UsageDeriveKey, crypto.UsageDeriveBits}

type pbkdf2Processor struct {
	logger logger.Logger
}

// NewPBKDF2Processor creates and returns a new instance of pbkdf2Processor
func NewPBKDF2Processor(logger logger.Logger) (cryptoalg.PBKDF2Processor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &pbkdf2Processor{
		logger: logger,
	}, nil
}

// ImportKey wraps a raw password as a non-extractable PBKDF2 key
func (p *pbkdf2Processor) ImportKey(format crypto.KeyFormat, data crypto.KeyData, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error) {
	if format != crypto.KeyFormatRaw {
		return nil, fmt.Errorf("%w: PBKDF2 keys can only be imported in raw format", crypto.ErrNotSupported)
	}
	if err := checkUsages(usages, pbkdf2Usages); err != nil {
		return nil, err
	}
	if extractable {
		return nil, fmt.Errorf("%w: PBKDF2 keys cannot be extractable", crypto.ErrSyntax)
	}

	key, err := crypto.NewCryptoKey(crypto.CryptoKeyParams{
		Type:        crypto.KeyTypeSecret,
		Extractable: false,
		Algorithm:   crypto.KeyAlgorithm{Name: crypto.AlgorithmPBKDF2},
		Usages:      usages,
		Handle:      crypto.NewPBKDF2Handle(data.Raw),
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Imported PBKDF2 key ", key.ID())
	return key, nil
}

// DeriveBits runs PBKDF2-HMAC with the hash selected in params
func (p *pbkdf2Processor) DeriveBits(params crypto.Pbkdf2Params, key crypto.KeyHandle, length *uint32) ([]byte, error) {
	if length == nil || *length == 0 || *length%8 != 0 {
		return nil, fmt.Errorf("%w: length must be a non-zero multiple of 8", crypto.ErrOperation)
	}
	if params.Iterations == 0 {
		return nil, fmt.Errorf("%w: iterations cannot be zero", crypto.ErrOperation)
	}
	digest, ok := params.Hash.(crypto.DigestAlgorithm)
	if !ok {
		return nil, fmt.Errorf("%w: PBKDF2 hash must be a SHA digest", crypto.ErrNotSupported)
	}
	hashFunc, err := digest.HashFunc()
	if err != nil {
		return nil, err
	}
	if key.Kind() != crypto.HandlePbkdf2 {
		return nil, fmt.Errorf("%w: key handle does not hold a PBKDF2 secret", crypto.ErrData)
	}

	derived := pbkdf2.Key(key.Bytes(), params.Salt, int(params.Iterations), int(*length/8), hashFunc)

	p.logger.Debug("Derived ", *length, " bits with PBKDF2-", digest.AlgorithmName())
	return derived, nil
}
