package crypto

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// HandleKind tags the in-memory representation of key material.
// Asymmetric families get their own kinds when they are implemented.
type HandleKind int

// Handle kinds
const (
	HandleAes128 HandleKind = iota + 1
	HandleAes192
	HandleAes256
	HandlePbkdf2
)

// KeyHandle is the algorithm-tagged secret material of a key. Its byte length is
// fixed by its kind and it cannot be modified after construction.
type KeyHandle struct {
	kind HandleKind
	data []byte
}

// NewAESHandle selects the AES handle kind from the key length.
func NewAESHandle(data []byte) (KeyHandle, error) {
	var kind HandleKind
	switch len(data) {
	case AESKeySize128:
		kind = HandleAes128
	case AESKeySize192:
		kind = HandleAes192
	case AESKeySize256:
		kind = HandleAes256
	default:
		return KeyHandle{}, fmt.Errorf("%w: AES key length must be 128, 192 or 256 bits, got %d", ErrData, len(data)*8)
	}
	return KeyHandle{kind: kind, data: slices.Clone(data)}, nil
}

// NewPBKDF2Handle wraps a PBKDF2 password of arbitrary length.
func NewPBKDF2Handle(data []byte) KeyHandle {
	return KeyHandle{kind: HandlePbkdf2, data: slices.Clone(data)}
}

// Kind returns the handle tag.
func (h KeyHandle) Kind() HandleKind { return h.kind }

// Bytes returns a copy of the key material.
func (h KeyHandle) Bytes() []byte { return slices.Clone(h.data) }

// BitLength returns the key length in bits.
func (h KeyHandle) BitLength() int { return len(h.data) * 8 }

// IsAES reports whether the handle holds an AES key.
func (h KeyHandle) IsAES() bool {
	return h.kind == HandleAes128 || h.kind == HandleAes192 || h.kind == HandleAes256
}

// KeyAlgorithm describes the algorithm a key is bound to. Length is only set for AES keys.
type KeyAlgorithm struct {
	Name   string `json:"name" validate:"required"`
	Length uint16 `json:"length,omitempty"`
}

// CryptoKeyParams carries everything needed to construct a CryptoKey
type CryptoKeyParams struct {
	Type        KeyType      `validate:"required,oneof=secret public private"`
	Extractable bool         ``
	Algorithm   KeyAlgorithm `validate:"required"`
	Usages      []KeyUsage   `validate:"required,min=1,dive,oneof=encrypt decrypt sign verify deriveKey deriveBits wrapKey unwrapKey"`
	Handle      KeyHandle    ``
}

// Validate for validating CryptoKeyParams struct
func (p *CryptoKeyParams) Validate() error {
	validate := validator.New()

	err := validate.Struct(p)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("%w: validation failed: %v", ErrSyntax, messages)
		}
		return fmt.Errorf("%w: validation error: %v", ErrSyntax, err)
	}

	if p.Handle.kind == 0 {
		return fmt.Errorf("%w: key handle is empty", ErrData)
	}
	return nil
}

// CryptoKey owns a KeyHandle together with its metadata. It is immutable and
// therefore safe for concurrent readers.
type CryptoKey struct {
	id          string
	keyType     KeyType
	extractable bool
	algorithm   KeyAlgorithm
	usages      []KeyUsage
	handle      KeyHandle
}

// NewCryptoKey validates params and builds a key with a fresh ID.
func NewCryptoKey(params CryptoKeyParams) (*CryptoKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &CryptoKey{
		id:          uuid.New().String(),
		keyType:     params.Type,
		extractable: params.Extractable,
		algorithm:   params.Algorithm,
		usages:      slices.Clone(params.Usages),
		handle:      params.Handle,
	}, nil
}

// ID returns the unique key identifier.
func (k *CryptoKey) ID() string { return k.id }

// Type returns the key type.
func (k *CryptoKey) Type() KeyType { return k.keyType }

// Extractable reports whether the key may be exported.
func (k *CryptoKey) Extractable() bool { return k.extractable }

// Algorithm returns the key algorithm.
func (k *CryptoKey) Algorithm() KeyAlgorithm { return k.algorithm }

// Usages returns a copy of the permitted usages.
func (k *CryptoKey) Usages() []KeyUsage { return slices.Clone(k.usages) }

// HasUsage reports whether usage is permitted.
func (k *CryptoKey) HasUsage(usage KeyUsage) bool { return slices.Contains(k.usages, usage) }

// Handle returns the key material handle.
func (k *CryptoKey) Handle() KeyHandle { return k.handle }
