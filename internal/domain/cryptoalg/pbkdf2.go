package cryptoalg

import (
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
)

// PBKDF2Processor imports PBKDF2 secrets and derives bits from them.
type PBKDF2Processor interface {
	// ImportKey wraps a raw password. PBKDF2 keys are never extractable.
	ImportKey(format crypto.KeyFormat, data crypto.KeyData, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error)

	// DeriveBits returns length/8 bytes of PBKDF2-HMAC output. length must be a
	// non-zero multiple of 8.
	DeriveBits(params crypto.Pbkdf2Params, key crypto.KeyHandle, length *uint32) ([]byte, error)
}
