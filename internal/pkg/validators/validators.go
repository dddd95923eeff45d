package validators

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Validation tags registered by Register
const (
	AESKeyLengthTag = "aeskeylength"
	KeyUsageTag     = "keyusage"
	KeySizeTag      = "keysize"
)

var keyUsages = map[string]struct{}{
	"encrypt":    {},
	"decrypt":    {},
	"sign":       {},
	"verify":     {},
	"deriveKey":  {},
	"deriveBits": {},
	"wrapKey":    {},
	"unwrapKey":  {},
}

// AESKeyLengthValidation accepts the AES key lengths in bits: 128, 192 and 256.
func AESKeyLengthValidation(fl validator.FieldLevel) bool {
	length, ok := unsignedField(fl.Field())
	if !ok {
		return false
	}
	return length == 128 || length == 192 || length == 256
}

// KeyUsageValidation accepts a WebCrypto key usage name.
func KeyUsageValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, ok := keyUsages[fl.Field().String()]
	return ok
}

// KeySizeValidation validates the key size against the sibling Algorithm field.
// AES keys need an AES length, PBKDF2 secrets any non-zero size.
func KeySizeValidation(fl validator.FieldLevel) bool {
	algorithm := fl.Parent().FieldByName("Algorithm")
	if !algorithm.IsValid() || algorithm.Kind() != reflect.String {
		return false
	}
	keySize, ok := unsignedField(fl.Field())
	if !ok {
		return false
	}

	switch algorithm.String() {
	case "AES-CBC", "AES-CTR":
		return keySize == 128 || keySize == 192 || keySize == 256
	case "PBKDF2":
		return keySize > 0
	default:
		return false
	}
}

// Register installs the custom validations on v
func Register(v *validator.Validate) error {
	for tag, fn := range map[string]validator.Func{
		AESKeyLengthTag: AESKeyLengthValidation,
		KeyUsageTag:     KeyUsageValidation,
		KeySizeTag:      KeySizeValidation,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// New returns a validator with the custom validations installed
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		// Registration only fails for empty tags or nil functions.
		panic(err)
	}
	return v
}

func unsignedField(field reflect.Value) (uint64, bool) {
	switch field.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Int() < 0 {
			return 0, false
		}
		return uint64(field.Int()), true
	default:
		return 0, false
	}
}
