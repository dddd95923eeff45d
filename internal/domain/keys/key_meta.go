package keys

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// ErrKeyNotFound is returned when no keyring entry matches the requested ID
var ErrKeyNotFound = errors.New("key not found")

// KeyMeta describes a key held by the keyring. The key material itself is stored
// separately as a JWK and only handed out through the repository.
type KeyMeta struct {
	ID              string    `json:"id" validate:"required,uuid4"`
	Name            string    `json:"name" validate:"required,min=1,max=255"`
	Algorithm       string    `json:"algorithm" validate:"required,oneof=AES-CBC AES-CTR"`
	KeySize         uint16    `json:"keySize" validate:"keysize"`
	Type            string    `json:"type" validate:"required,oneof=secret"`
	Extractable     bool      `json:"extractable"`
	Usages          []string  `json:"usages" validate:"required,min=1,dive,keyusage"`
	DateTimeCreated time.Time `json:"dateTimeCreated" validate:"required"`
}

// Validate for validating KeyMeta struct
func (k *KeyMeta) Validate() error {
	return validate(k)
}

// KeyMetaQuery filters and pages keyring listings
type KeyMetaQuery struct {
	Algorithm       string    `form:"algorithm" validate:"omitempty,oneof=AES-CBC AES-CTR"`
	DateTimeCreated time.Time `form:"dateTimeCreated" validate:"omitempty"`

	Limit  int `form:"limit" validate:"omitempty,gt=0"`
	Offset int `form:"offset" validate:"omitempty,gte=0"`

	SortBy    string `form:"sortBy" validate:"omitempty,oneof=name algorithm key_size date_time_created"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// NewKeyMetaQuery creates a KeyMetaQuery with default values
func NewKeyMetaQuery() *KeyMetaQuery {
	return &KeyMetaQuery{
		Limit:     50,
		Offset:    0,
		SortBy:    "date_time_created",
		SortOrder: "desc",
	}
}

// Validate for validating KeyMetaQuery struct
func (q *KeyMetaQuery) Validate() error {
	return validate(q)
}

func validate(s any) error {
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
