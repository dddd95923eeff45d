package cryptography

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"
)

var aesUsages = []crypto.KeyUsage{crypto.UsageEncrypt, crypto.UsageDecrypt, crypto.UsageWrapKey, crypto.UsageUnwrapKey}

// aesProcessor struct that implements the AESProcessor interface
type aesProcessor struct {
	logger logger.Logger

	randMu sync.Mutex
	random io.Reader
}

// NewAESProcessor creates an AES processor drawing key material from crypto/rand
func NewAESProcessor(logger logger.Logger) (cryptoalg.AESProcessor, error) {
	return NewAESProcessorWithRandom(logger, rand.Reader)
}

// NewAESProcessorWithRandom creates an AES processor drawing key material from random.
// Reads from random are serialized, so it does not need to be safe for concurrent use.
func NewAESProcessorWithRandom(logger logger.Logger, random io.Reader) (cryptoalg.AESProcessor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if random == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	return &aesProcessor{
		logger: logger,
		random: random,
	}, nil
}

// EncryptCBC pads plaintext with PKCS#7 and encrypts it in CBC mode
func (a *aesProcessor) EncryptCBC(iv []byte, key crypto.KeyHandle, plaintext []byte) ([]byte, error) {
	if len(iv) != crypto.AESBlockSize {
		return nil, fmt.Errorf("%w: AES-CBC iv must be %d bytes, got %d", crypto.ErrOperation, crypto.AESBlockSize, len(iv))
	}
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, crypto.AESBlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	a.logger.Debug("AES-CBC encryption succeeded")
	return ciphertext, nil
}

// DecryptCBC decrypts a CBC ciphertext and strips its PKCS#7 padding
func (a *aesProcessor) DecryptCBC(iv []byte, key crypto.KeyHandle, ciphertext []byte) ([]byte, error) {
	if len(iv) != crypto.AESBlockSize {
		return nil, fmt.Errorf("%w: AES-CBC iv must be %d bytes, got %d", crypto.ErrOperation, crypto.AESBlockSize, len(iv))
	}
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%crypto.AESBlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a non-empty multiple of the block size", crypto.ErrOperation)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext, crypto.AESBlockSize)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("AES-CBC decryption succeeded")
	return plaintext, nil
}

// CryptCTR XORs data with the AES-CTR keystream
func (a *aesProcessor) CryptCTR(counter []byte, length uint8, key crypto.KeyHandle, data []byte) ([]byte, error) {
	if len(counter) != crypto.AESBlockSize {
		return nil, fmt.Errorf("%w: AES-CTR counter must be %d bytes, got %d", crypto.ErrOperation, crypto.AESBlockSize, len(counter))
	}
	if length == 0 || length > 128 {
		return nil, fmt.Errorf("%w: AES-CTR length must be between 1 and 128, got %d", crypto.ErrOperation, length)
	}
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	ctr := bytes.Clone(counter)
	keystream := make([]byte, crypto.AESBlockSize)
	for off := 0; off < len(data); off += crypto.AESBlockSize {
		block.Encrypt(keystream, ctr)
		subtle.XORBytes(out[off:], data[off:], keystream)
		incrementCounter(ctr, length)
	}

	a.logger.Debug("AES-CTR operation succeeded")
	return out, nil
}

// GenerateKey creates a random AES-CBC or AES-CTR key
func (a *aesProcessor) GenerateKey(params crypto.AesKeyGenParams, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error) {
	if params.Length != 128 && params.Length != 192 && params.Length != 256 {
		return nil, fmt.Errorf("%w: AES key length must be 128, 192 or 256 bits, got %d", crypto.ErrOperation, params.Length)
	}
	if err := checkUsages(usages, aesUsages); err != nil {
		return nil, err
	}
	if !isAESAlgorithm(params.Name) {
		return nil, fmt.Errorf("%w: cannot generate %s keys", crypto.ErrNotSupported, params.Name)
	}

	material := make([]byte, params.Length/8)
	a.randMu.Lock()
	_, err := io.ReadFull(a.random, material)
	a.randMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read random key material: %w", err)
	}

	key, err := newAESKey(material, params.Name, extractable, usages)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Generated ", params.Name, " key ", key.ID())
	return key, nil
}

// ImportKey builds an AES key from raw bytes or a JWK
func (a *aesProcessor) ImportKey(format crypto.KeyFormat, data crypto.KeyData, algorithmName string, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error) {
	if err := checkUsages(usages, aesUsages); err != nil {
		return nil, err
	}

	var material []byte
	switch format {
	case crypto.KeyFormatRaw:
		material = data.Raw
	case crypto.KeyFormatJwk:
		decoded, err := readSymmetricJWK(data.JWK, algorithmName, extractable)
		if err != nil {
			return nil, err
		}
		material = decoded
	default:
		return nil, fmt.Errorf("%w: cannot import AES keys in %s format", crypto.ErrNotSupported, format)
	}

	key, err := newAESKey(material, algorithmName, extractable, usages)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Imported ", algorithmName, " key ", key.ID())
	return key, nil
}

// ExportKey serializes an extractable AES key
func (a *aesProcessor) ExportKey(format crypto.KeyFormat, key *crypto.CryptoKey) (*crypto.ExportedKey, error) {
	if key == nil {
		return nil, fmt.Errorf("key cannot be nil")
	}
	if !isAESAlgorithm(key.Algorithm().Name) {
		return nil, fmt.Errorf("%w: %s keys cannot be exported", crypto.ErrNotSupported, key.Algorithm().Name)
	}
	if !key.Extractable() {
		return nil, fmt.Errorf("%w: key is not extractable", crypto.ErrInvalidAccess)
	}
	if format != crypto.KeyFormatRaw && format != crypto.KeyFormatJwk {
		return nil, fmt.Errorf("%w: cannot export AES keys in %s format", crypto.ErrNotSupported, format)
	}

	handle := key.Handle()
	if !handle.IsAES() {
		return nil, fmt.Errorf("%w: key handle does not hold AES material", crypto.ErrData)
	}

	exported := &crypto.ExportedKey{Format: format}
	if format == crypto.KeyFormatRaw {
		exported.Raw = handle.Bytes()
	} else {
		ext := key.Extractable()
		ops := make([]string, 0, len(key.Usages()))
		for _, usage := range key.Usages() {
			ops = append(ops, string(usage))
		}
		exported.JWK = &crypto.JSONWebKey{
			Kty:    crypto.JWKKeyTypeOctet,
			Alg:    jwkAlgorithm(key.Algorithm().Name, handle.BitLength()),
			K:      crypto.EncodeJWKBytes(handle.Bytes()),
			Ext:    &ext,
			KeyOps: ops,
		}
	}

	a.logger.Info("Exported key ", key.ID(), " as ", format)
	return exported, nil
}

func newBlock(key crypto.KeyHandle) (cipher.Block, error) {
	if !key.IsAES() {
		return nil, fmt.Errorf("%w: key handle does not hold AES material", crypto.ErrData)
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrData, err)
	}
	return block, nil
}

func newAESKey(material []byte, name string, extractable bool, usages []crypto.KeyUsage) (*crypto.CryptoKey, error) {
	handle, err := crypto.NewAESHandle(material)
	if err != nil {
		return nil, err
	}
	return crypto.NewCryptoKey(crypto.CryptoKeyParams{
		Type:        crypto.KeyTypeSecret,
		Extractable: extractable,
		Algorithm:   crypto.KeyAlgorithm{Name: name, Length: uint16(handle.BitLength())},
		Usages:      usages,
		Handle:      handle,
	})
}

// readSymmetricJWK decodes the "k" member and checks the members that must agree
// with the import request. An empty "k" decodes to no bytes and is rejected by
// the key length check.
func readSymmetricJWK(jwk *crypto.JSONWebKey, algorithmName string, extractable bool) ([]byte, error) {
	if jwk == nil || !jwk.HasK() {
		return nil, fmt.Errorf("%w: JWK is missing the k member", crypto.ErrSyntax)
	}
	material, err := crypto.DecodeJWKBytes(jwk.K)
	if err != nil {
		return nil, err
	}
	if jwk.Kty != "" && jwk.Kty != crypto.JWKKeyTypeOctet {
		return nil, fmt.Errorf("%w: JWK kty must be %q, got %q", crypto.ErrData, crypto.JWKKeyTypeOctet, jwk.Kty)
	}
	if jwk.Alg != "" && jwk.Alg != jwkAlgorithm(algorithmName, len(material)*8) {
		return nil, fmt.Errorf("%w: JWK alg %q does not match %s with a %d-bit key", crypto.ErrData, jwk.Alg, algorithmName, len(material)*8)
	}
	if jwk.Ext != nil && !*jwk.Ext && extractable {
		return nil, fmt.Errorf("%w: JWK is not extractable", crypto.ErrData)
	}
	return material, nil
}

func jwkAlgorithm(name string, bits int) string {
	suffix := "CBC"
	if name == crypto.AlgorithmAESCTR {
		suffix = "CTR"
	}
	return "A" + strconv.Itoa(bits) + suffix
}

func isAESAlgorithm(name string) bool {
	return name == crypto.AlgorithmAESCBC || name == crypto.AlgorithmAESCTR
}

// checkUsages requires a non-empty usage list drawn from allowed.
func checkUsages(usages []crypto.KeyUsage, allowed []crypto.KeyUsage) error {
	if len(usages) == 0 {
		return fmt.Errorf("%w: usages cannot be empty", crypto.ErrSyntax)
	}
	for _, usage := range usages {
		permitted := false
		for _, a := range allowed {
			if usage == a {
				permitted = true
				break
			}
		}
		if !permitted {
			return fmt.Errorf("%w: usage %q is not allowed", crypto.ErrSyntax, usage)
		}
	}
	return nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+padding)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded data length", crypto.ErrOperation)
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", crypto.ErrOperation)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: invalid padding", crypto.ErrOperation)
		}
	}
	return data[:len(data)-padding], nil
}

// incrementCounter adds one to the low bits of the big-endian counter block,
// wrapping modulo 2^bits and leaving the remaining high bits untouched.
func incrementCounter(ctr []byte, bits uint8) {
	remaining := int(bits)
	for i := len(ctr) - 1; i >= 0 && remaining > 0; i-- {
		if remaining >= 8 {
			ctr[i]++
			if ctr[i] != 0 {
				return
			}
			remaining -= 8
			continue
		}
		mask := byte(1<<remaining) - 1
		ctr[i] = ctr[i]&^mask | (ctr[i]+1)&mask
		return
	}
}
