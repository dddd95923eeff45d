//go:build unit
// +build unit

package cryptography

import (
	"testing"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestProcessor(t *testing.T) {
	processor, err := NewDigestProcessor(testutil.SetupTestLogger(t))
	require.NoError(t, err)

	t.Run("Lengths", func(t *testing.T) {
		tests := []struct {
			algorithm crypto.DigestAlgorithm
			size      int
		}{
			{crypto.SHA1, 20},
			{crypto.SHA256, 32},
			{crypto.SHA384, 48},
			{crypto.SHA512, 64},
		}

		for _, tt := range tests {
			t.Run(tt.algorithm.AlgorithmName(), func(t *testing.T) {
				out, err := processor.Digest(tt.algorithm, []byte("abc"))
				require.NoError(t, err)
				assert.Len(t, out, tt.size)
				assert.Equal(t, tt.size, tt.algorithm.Size())

				again, err := processor.Digest(tt.algorithm, []byte("abc"))
				require.NoError(t, err)
				assert.Equal(t, out, again)
			})
		}
	})

	t.Run("KnownVectors", func(t *testing.T) {
		out, err := processor.Digest(crypto.SHA1, []byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "a9993e364706816aba3e25717850c26c9cd0d89d"), out)

		out, err = processor.Digest(crypto.SHA256, []byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, testutil.MustHex(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"), out)
	})

	t.Run("UnknownAlgorithm", func(t *testing.T) {
		_, err := processor.Digest(crypto.DigestAlgorithm(0), []byte("abc"))
		assert.ErrorIs(t, err, crypto.ErrNotSupported)
	})
}
