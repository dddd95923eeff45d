package cryptoalg

import (
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
)

// AESCipher runs the AES block and stream modes. It is usage-agnostic: callers
// check key usages and algorithm names before invoking it.
type AESCipher interface {
	// EncryptCBC pads plaintext with PKCS#7 and encrypts it in CBC mode.
	// The IV must be 16 bytes.
	EncryptCBC(iv []byte, key crypto.KeyHandle, plaintext []byte) ([]byte, error)

	// DecryptCBC decrypts a CBC ciphertext and strips its PKCS#7 padding.
	DecryptCBC(iv []byte, key crypto.KeyHandle, ciphertext []byte) ([]byte, error)

	// CryptCTR XORs data with the CTR keystream. The low length bits of the
	// 16-byte counter block are incremented per block, the rest stays fixed.
	// CTR is its own inverse.
	CryptCTR(counter []byte, length uint8, key crypto.KeyHandle, data []byte) ([]byte, error)
}

// AESKeyManager generates, imports and exports AES-CBC and AES-CTR keys.
type AESKeyManager interface {
	// GenerateKey creates a random key of params.Length bits.
	GenerateKey(params crypto.AesKeyGenParams, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error)

	// ImportKey builds a key bound to algorithmName from raw bytes or a JWK.
	ImportKey(format crypto.KeyFormat, data crypto.KeyData, algorithmName string, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error)

	// ExportKey serializes an extractable key.
	ExportKey(format crypto.KeyFormat, key *crypto.CryptoKey) (*crypto.ExportedKey, error)
}

// AESProcessor is the complete AES family.
type AESProcessor interface {
	AESCipher
	AESKeyManager
}
