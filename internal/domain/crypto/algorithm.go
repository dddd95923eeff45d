package crypto

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is part of the WebCrypto digest set.
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// AlgorithmIdentifier is the raw, loosely typed algorithm descriptor handed in
// by a caller: either a bare name or a parameter object carrying at least a
// "name" member.
type AlgorithmIdentifier struct {
	name   string
	object map[string]any
}

// AlgorithmName builds a descriptor from a bare algorithm name.
func AlgorithmName(name string) AlgorithmIdentifier {
	return AlgorithmIdentifier{name: name}
}

// AlgorithmObject builds a descriptor from a parameter object.
func AlgorithmObject(object map[string]any) AlgorithmIdentifier {
	return AlgorithmIdentifier{object: object}
}

// IsObject reports whether the descriptor was given as a parameter object.
func (a AlgorithmIdentifier) IsObject() bool {
	return a.object != nil
}

// Members returns the parameter object a bare name is equivalent to.
func (a AlgorithmIdentifier) Members() map[string]any {
	if a.object != nil {
		return a.object
	}
	return map[string]any{"name": a.name}
}

// NormalizedAlgorithm is the validated, operation-specific result of
// normalization. The set of variants is closed.
type NormalizedAlgorithm interface {
	// AlgorithmName returns the registered upper-case algorithm name.
	AlgorithmName() string
	normalized()
}

// PlainName is a normalized algorithm that carries no parameters.
type PlainName struct {
	Name string
}

// AlgorithmName implements NormalizedAlgorithm.
func (p PlainName) AlgorithmName() string { return p.Name }
func (PlainName) normalized()             {}

// AesCbcParams holds the parameters of AES-CBC encrypt and decrypt.
type AesCbcParams struct {
	Name string
	IV   []byte
}

// AlgorithmName implements NormalizedAlgorithm.
func (p AesCbcParams) AlgorithmName() string { return p.Name }
func (AesCbcParams) normalized()             {}

// AesCtrParams holds the parameters of AES-CTR encrypt and decrypt.
// Length is the number of low-order counter bits.
type AesCtrParams struct {
	Name    string
	Counter []byte
	Length  uint8
}

// AlgorithmName implements NormalizedAlgorithm.
func (p AesCtrParams) AlgorithmName() string { return p.Name }
func (AesCtrParams) normalized()             {}

// AesKeyGenParams holds the parameters of AES key generation.
// Length is in bits.
type AesKeyGenParams struct {
	Name   string
	Length uint16
}

// AlgorithmName implements NormalizedAlgorithm.
func (p AesKeyGenParams) AlgorithmName() string { return p.Name }
func (AesKeyGenParams) normalized()             {}

// Pbkdf2Params holds the parameters of PBKDF2 bit derivation. Hash is the
// nested descriptor normalized against the digest operation.
type Pbkdf2Params struct {
	Salt       []byte
	Iterations uint32
	Hash       NormalizedAlgorithm
}

// AlgorithmName implements NormalizedAlgorithm.
func (Pbkdf2Params) AlgorithmName() string { return AlgorithmPBKDF2 }
func (Pbkdf2Params) normalized()           {}

// DigestAlgorithm identifies one of the SHA family digests.
type DigestAlgorithm int

// Supported digests
const (
	SHA1 DigestAlgorithm = iota + 1
	SHA256
	SHA384
	SHA512
)

// AlgorithmName implements NormalizedAlgorithm.
func (d DigestAlgorithm) AlgorithmName() string {
	switch d {
	case SHA1:
		return AlgorithmSHA1
	case SHA256:
		return AlgorithmSHA256
	case SHA384:
		return AlgorithmSHA384
	case SHA512:
		return AlgorithmSHA512
	default:
		return ""
	}
}
func (DigestAlgorithm) normalized() {}

// Size returns the digest length in bytes, or 0 for an unknown digest.
func (d DigestAlgorithm) Size() int {
	switch d {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case SHA384:
		return sha512.Size384
	case SHA512:
		return sha512.Size
	default:
		return 0
	}
}

// HashFunc returns the constructor of the hash behind d.
func (d DigestAlgorithm) HashFunc() (func() hash.Hash, error) {
	switch d {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: unknown digest algorithm %d", ErrNotSupported, int(d))
	}
}
