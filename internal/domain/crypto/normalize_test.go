//go:build unit
// +build unit

package crypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var iv16 = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

func TestNormalize_Table(t *testing.T) {
	tests := []struct {
		name       string
		descriptor AlgorithmIdentifier
		operation  Operation
		expected   NormalizedAlgorithm
	}{
		{
			name:       "aes-cbc encrypt lower case",
			descriptor: AlgorithmObject(map[string]any{"name": "aes-cbc", "iv": iv16}),
			operation:  OperationEncrypt,
			expected:   AesCbcParams{Name: AlgorithmAESCBC, IV: iv16},
		},
		{
			name:       "aes-ctr decrypt",
			descriptor: AlgorithmObject(map[string]any{"name": "AES-CTR", "counter": iv16, "length": 64}),
			operation:  OperationDecrypt,
			expected:   AesCtrParams{Name: AlgorithmAESCTR, Counter: iv16, Length: 64},
		},
		{
			name:       "aes key generation",
			descriptor: AlgorithmObject(map[string]any{"name": "Aes-Ctr", "length": 256}),
			operation:  OperationGenerateKey,
			expected:   AesKeyGenParams{Name: AlgorithmAESCTR, Length: 256},
		},
		{
			name: "pbkdf2 with nested hash object",
			descriptor: AlgorithmObject(map[string]any{
				"name":       "pbkdf2",
				"salt":       []byte("salt"),
				"iterations": 1000,
				"hash":       map[string]any{"name": "sha-256"},
			}),
			operation: OperationDeriveBits,
			expected:  Pbkdf2Params{Salt: []byte("salt"), Iterations: 1000, Hash: SHA256},
		},
		{
			name: "pbkdf2 with bare hash name",
			descriptor: AlgorithmObject(map[string]any{
				"name":       "PBKDF2",
				"salt":       "c2FsdA==",
				"iterations": json.Number("1"),
				"hash":       "SHA-1",
			}),
			operation: OperationDeriveBits,
			expected:  Pbkdf2Params{Salt: []byte("salt"), Iterations: 1, Hash: SHA1},
		},
		{
			name:       "hkdf derive bits",
			descriptor: AlgorithmName("hkdf"),
			operation:  OperationDeriveBits,
			expected:   PlainName{Name: AlgorithmHKDF},
		},
		{
			name:       "ecdsa derive bits",
			descriptor: AlgorithmName("ECDSA"),
			operation:  OperationDeriveBits,
			expected:   PlainName{Name: AlgorithmECDSA},
		},
		{
			name:       "pbkdf2 import",
			descriptor: AlgorithmName("PBKDF2"),
			operation:  OperationImportKey,
			expected:   PlainName{Name: AlgorithmPBKDF2},
		},
		{
			name:       "aes-cbc import",
			descriptor: AlgorithmObject(map[string]any{"name": "AES-CBC"}),
			operation:  OperationImportKey,
			expected:   PlainName{Name: AlgorithmAESCBC},
		},
		{
			name:       "sha-384 digest",
			descriptor: AlgorithmName("sha-384"),
			operation:  OperationDigest,
			expected:   SHA384,
		},
		{
			name:       "sha-512 digest object",
			descriptor: AlgorithmObject(map[string]any{"name": "SHA-512"}),
			operation:  OperationDigest,
			expected:   SHA512,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, err := Normalize(tt.descriptor, tt.operation)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
		})
	}
}

func TestNormalize_NotSupported(t *testing.T) {
	pairs := []struct {
		name      string
		operation Operation
	}{
		{"AES-GCM", OperationEncrypt},
		{"AES-CBC", OperationDigest},
		{"AES-CBC", OperationDeriveBits},
		{"SHA-256", OperationEncrypt},
		{"SHA-256", OperationImportKey},
		{"PBKDF2", OperationGenerateKey},
		{"HKDF", OperationImportKey},
		{"RSA-OAEP", OperationEncrypt},
		{"ECDSA", OperationGenerateKey},
		{"AES-CTR", OperationExportKey},
		{"MD5", OperationDigest},
	}

	extraFields := []map[string]any{
		{},
		{"iv": iv16, "length": 128},
		{"iv": "not base64!", "counter": 42, "length": -1, "hash": 7},
	}

	for _, pair := range pairs {
		for _, extra := range extraFields {
			members := map[string]any{"name": pair.name}
			for k, v := range extra {
				members[k] = v
			}

			assert.NotPanics(t, func() {
				_, err := Normalize(AlgorithmObject(members), pair.operation)
				assert.ErrorIs(t, err, ErrNotSupported, "%s/%s", pair.name, pair.operation)
			})
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor AlgorithmIdentifier
		operation  Operation
		kind       error
	}{
		{"missing name", AlgorithmObject(map[string]any{"iv": iv16}), OperationEncrypt, ErrSyntax},
		{"non string name", AlgorithmObject(map[string]any{"name": 5}), OperationEncrypt, ErrSyntax},
		{"missing iv", AlgorithmObject(map[string]any{"name": "AES-CBC"}), OperationEncrypt, ErrSyntax},
		{"bare name where params are needed", AlgorithmName("AES-CBC"), OperationEncrypt, ErrSyntax},
		{"iv of wrong type", AlgorithmObject(map[string]any{"name": "AES-CBC", "iv": 12}), OperationEncrypt, ErrSyntax},
		{"iv array with non bytes", AlgorithmObject(map[string]any{"name": "AES-CBC", "iv": []any{1, 300}}), OperationEncrypt, ErrSyntax},
		{"missing counter length", AlgorithmObject(map[string]any{"name": "AES-CTR", "counter": iv16}), OperationEncrypt, ErrSyntax},
		{"counter length not a number", AlgorithmObject(map[string]any{"name": "AES-CTR", "counter": iv16, "length": "64"}), OperationEncrypt, ErrSyntax},
		{"counter length beyond octet", AlgorithmObject(map[string]any{"name": "AES-CTR", "counter": iv16, "length": 256}), OperationEncrypt, ErrOperation},
		{"negative key length", AlgorithmObject(map[string]any{"name": "AES-CBC", "length": -128}), OperationGenerateKey, ErrOperation},
		{"fractional key length", AlgorithmObject(map[string]any{"name": "AES-CBC", "length": 128.5}), OperationGenerateKey, ErrOperation},
		{"key length beyond unsigned short", AlgorithmObject(map[string]any{"name": "AES-CBC", "length": 70000}), OperationGenerateKey, ErrOperation},
		{"missing hash", AlgorithmObject(map[string]any{"name": "PBKDF2", "salt": []byte("s"), "iterations": 1}), OperationDeriveBits, ErrSyntax},
		{"hash of wrong type", AlgorithmObject(map[string]any{"name": "PBKDF2", "salt": []byte("s"), "iterations": 1, "hash": 1}), OperationDeriveBits, ErrSyntax},
		{"unsupported hash", AlgorithmObject(map[string]any{"name": "PBKDF2", "salt": []byte("s"), "iterations": 1, "hash": "MD5"}), OperationDeriveBits, ErrNotSupported},
		{"iterations beyond u32", AlgorithmObject(map[string]any{"name": "PBKDF2", "salt": []byte("s"), "iterations": int64(1) << 33, "hash": "SHA-1"}), OperationDeriveBits, ErrOperation},
		{"salt not base64", AlgorithmObject(map[string]any{"name": "PBKDF2", "salt": "%%%", "iterations": 1, "hash": "SHA-1"}), OperationDeriveBits, ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.descriptor, tt.operation)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestNormalize_CopiesBuffers(t *testing.T) {
	iv := append([]byte{}, iv16...)
	normalized, err := Normalize(AlgorithmObject(map[string]any{"name": "AES-CBC", "iv": iv}), OperationEncrypt)
	require.NoError(t, err)

	iv[0] = 0xff
	assert.Equal(t, byte(0), normalized.(AesCbcParams).IV[0])
}

func TestNormalize_NumberArrays(t *testing.T) {
	normalized, err := Normalize(AlgorithmObject(map[string]any{
		"name":    "AES-CTR",
		"counter": []any{float64(1), json.Number("2"), 3},
		"length":  float64(8),
	}), OperationEncrypt)
	require.NoError(t, err)

	params := normalized.(AesCtrParams)
	assert.Equal(t, []byte{1, 2, 3}, params.Counter)
	assert.Equal(t, uint8(8), params.Length)
}

func TestKindOf(t *testing.T) {
	_, err := Normalize(AlgorithmName("nope"), OperationDigest)
	assert.Equal(t, "NotSupportedError", KindOf(err))
	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "", KindOf(assert.AnError))
}
