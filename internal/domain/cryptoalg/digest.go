package cryptoalg

import (
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
)

// DigestProcessor computes SHA family digests
type DigestProcessor interface {
	Digest(algorithm crypto.DigestAlgorithm, data []byte) ([]byte, error)
}
