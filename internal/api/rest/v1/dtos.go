package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// InfoResponse represents an informational response
type InfoResponse struct {
	Message string `json:"message"`
}

// BytesResponse carries binary output as standard base64
type BytesResponse struct {
	Data []byte `json:"data"`
}

// DigestRequest hashes Data with Algorithm. Algorithm is a name or an object with a name member.
type DigestRequest struct {
	Algorithm any    `json:"algorithm" validate:"required"`
	Data      []byte `json:"data"`
}

// Validate for validating DigestRequest struct
func (r *DigestRequest) Validate() error {
	return validateStruct(r)
}

// CipherRequest encrypts or decrypts Data with a keyring key
type CipherRequest struct {
	KeyID     string `json:"keyId" validate:"required,uuid4"`
	Algorithm any    `json:"algorithm" validate:"required"`
	Data      []byte `json:"data"`
}

// Validate for validating CipherRequest struct
func (r *CipherRequest) Validate() error {
	return validateStruct(r)
}

// DeriveBitsRequest derives Length bits from Password with PBKDF2.
// PBKDF2 keys never enter the keyring, so the password travels with the request.
type DeriveBitsRequest struct {
	Password  []byte  `json:"password" validate:"required"`
	Algorithm any     `json:"algorithm" validate:"required"`
	Length    *uint32 `json:"length"`
}

// Validate for validating DeriveBitsRequest struct
func (r *DeriveBitsRequest) Validate() error {
	return validateStruct(r)
}

// GenerateKeyRequest creates a keyring key
type GenerateKeyRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	Algorithm string   `json:"algorithm" validate:"required"`
	Length    uint16   `json:"length" validate:"aeskeylength"`
	Usages    []string `json:"usages" validate:"required,min=1"`
}

// Validate for validating GenerateKeyRequest struct
func (r *GenerateKeyRequest) Validate() error {
	return validateStruct(r)
}

// ImportKeyRequest stores externally supplied AES key material. Raw is used with
// the raw format and JWK with the jwk format.
type ImportKeyRequest struct {
	Name      string             `json:"name" validate:"required,min=1,max=255"`
	Format    string             `json:"format" validate:"required"`
	Algorithm string             `json:"algorithm" validate:"required"`
	Raw       []byte             `json:"raw,omitempty"`
	JWK       *crypto.JSONWebKey `json:"jwk,omitempty"`
	Usages    []string           `json:"usages" validate:"required,min=1"`
}

// Validate for validating ImportKeyRequest struct
func (r *ImportKeyRequest) Validate() error {
	return validateStruct(r)
}

// KeyMetaResponse represents the metadata of a keyring key
type KeyMetaResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Algorithm       string    `json:"algorithm"`
	KeySize         uint16    `json:"keySize"`
	Type            string    `json:"type"`
	Extractable     bool      `json:"extractable"`
	Usages          []string  `json:"usages"`
	DateTimeCreated time.Time `json:"dateTimeCreated"`
}

// ExportKeyResponse carries an exported key in raw or JWK form
type ExportKeyResponse struct {
	Format string             `json:"format"`
	Raw    []byte             `json:"raw,omitempty"`
	JWK    *crypto.JSONWebKey `json:"jwk,omitempty"`
}

func newKeyMetaResponse(meta *keys.KeyMeta) KeyMetaResponse {
	return KeyMetaResponse{
		ID:              meta.ID,
		Name:            meta.Name,
		Algorithm:       meta.Algorithm,
		KeySize:         meta.KeySize,
		Type:            meta.Type,
		Extractable:     meta.Extractable,
		Usages:          meta.Usages,
		DateTimeCreated: meta.DateTimeCreated,
	}
}

// algorithmIdentifier converts a decoded JSON algorithm member
func algorithmIdentifier(value any) (crypto.AlgorithmIdentifier, error) {
	switch v := value.(type) {
	case string:
		return crypto.AlgorithmName(v), nil
	case map[string]any:
		return crypto.AlgorithmObject(v), nil
	default:
		return crypto.AlgorithmIdentifier{}, fmt.Errorf("%w: algorithm must be a name or an object", crypto.ErrSyntax)
	}
}

func keyUsages(usages []string) []crypto.KeyUsage {
	out := make([]crypto.KeyUsage, len(usages))
	for i, usage := range usages {
		out[i] = crypto.KeyUsage(usage)
	}
	return out
}

func validateStruct(s any) error {
	err := validators.New().Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
