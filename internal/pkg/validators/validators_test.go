//go:build unit
// +build unit

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type lengthRequest struct {
	Length uint16 `validate:"aeskeylength"`
}

type usageRequest struct {
	Usages []string `validate:"min=1,dive,keyusage"`
}

type keyRecord struct {
	Algorithm string
	KeySize   uint32 `validate:"keysize"`
}

func TestAESKeyLengthValidation(t *testing.T) {
	v := New()

	tests := []struct {
		length uint16
		valid  bool
	}{
		{128, true},
		{192, true},
		{256, true},
		{0, false},
		{64, false},
		{512, false},
	}

	for _, tt := range tests {
		err := v.Struct(lengthRequest{Length: tt.length})
		if tt.valid {
			assert.NoError(t, err, "length %d", tt.length)
		} else {
			assert.Error(t, err, "length %d", tt.length)
		}
	}
}

func TestKeyUsageValidation(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(usageRequest{Usages: []string{"encrypt", "decrypt", "deriveBits"}}))
	assert.Error(t, v.Struct(usageRequest{Usages: []string{"encrypt", "Encrypt"}}))
	assert.Error(t, v.Struct(usageRequest{Usages: []string{}}))
}

func TestKeySizeValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		record keyRecord
		valid  bool
	}{
		{"aes-cbc 256", keyRecord{Algorithm: "AES-CBC", KeySize: 256}, true},
		{"aes-ctr 128", keyRecord{Algorithm: "AES-CTR", KeySize: 128}, true},
		{"aes odd size", keyRecord{Algorithm: "AES-CBC", KeySize: 100}, false},
		{"pbkdf2 any size", keyRecord{Algorithm: "PBKDF2", KeySize: 72}, true},
		{"pbkdf2 empty", keyRecord{Algorithm: "PBKDF2", KeySize: 0}, false},
		{"unknown algorithm", keyRecord{Algorithm: "RSA-OAEP", KeySize: 2048}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.record)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
