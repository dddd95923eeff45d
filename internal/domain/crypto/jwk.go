package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// RsaOtherPrimesInfo is an entry of the JWK "oth" member
type RsaOtherPrimesInfo struct {
	R string `json:"r,omitempty" yaml:"r,omitempty"`
	D string `json:"d,omitempty" yaml:"d,omitempty"`
	T string `json:"t,omitempty" yaml:"t,omitempty"`
}

// JSONWebKey is the WebCrypto JWK dictionary. Only the symmetric members are
// read and written by the AES family, the others are carried for completeness.
type JSONWebKey struct {
	Kty    string               `json:"kty,omitempty" yaml:"kty,omitempty"`
	Use    string               `json:"use,omitempty" yaml:"use,omitempty"`
	KeyOps []string             `json:"key_ops,omitempty" yaml:"key_ops,omitempty"`
	Alg    string               `json:"alg,omitempty" yaml:"alg,omitempty"`
	Ext    *bool                `json:"ext,omitempty" yaml:"ext,omitempty"`
	Crv    string               `json:"crv,omitempty" yaml:"crv,omitempty"`
	X      string               `json:"x,omitempty" yaml:"x,omitempty"`
	Y      string               `json:"y,omitempty" yaml:"y,omitempty"`
	D      string               `json:"d,omitempty" yaml:"d,omitempty"`
	N      string               `json:"n,omitempty" yaml:"n,omitempty"`
	E      string               `json:"e,omitempty" yaml:"e,omitempty"`
	P      string               `json:"p,omitempty" yaml:"p,omitempty"`
	Q      string               `json:"q,omitempty" yaml:"q,omitempty"`
	DP     string               `json:"dp,omitempty" yaml:"dp,omitempty"`
	DQ     string               `json:"dq,omitempty" yaml:"dq,omitempty"`
	QI     string               `json:"qi,omitempty" yaml:"qi,omitempty"`
	Oth    []RsaOtherPrimesInfo `json:"oth,omitempty" yaml:"oth,omitempty"`
	K      string               `json:"k,omitempty" yaml:"k,omitempty"`

	// emptyK is set when a decoded document carried "k" with an empty value.
	emptyK bool
}

// HasK reports whether the "k" member is present, even if empty.
func (j *JSONWebKey) HasK() bool {
	return j.K != "" || j.emptyK
}

// UnmarshalJSON decodes the dictionary and remembers an empty "k" member.
func (j *JSONWebKey) UnmarshalJSON(data []byte) error {
	type plain JSONWebKey
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*j = JSONWebKey(out)
	if k, ok := members["k"]; ok && out.K == "" && string(k) != "null" {
		j.emptyK = true
	}
	return nil
}

// UnmarshalYAML is the yaml.v2 counterpart of UnmarshalJSON.
func (j *JSONWebKey) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain JSONWebKey
	var out plain
	if err := unmarshal(&out); err != nil {
		return err
	}
	var members map[string]interface{}
	if err := unmarshal(&members); err != nil {
		return err
	}
	*j = JSONWebKey(out)
	if k, ok := members["k"]; ok && out.K == "" && k != nil {
		j.emptyK = true
	}
	return nil
}

// Clone returns a deep copy of the key.
func (j *JSONWebKey) Clone() *JSONWebKey {
	if j == nil {
		return nil
	}
	out := *j
	out.KeyOps = slices.Clone(j.KeyOps)
	out.Oth = slices.Clone(j.Oth)
	if j.Ext != nil {
		ext := *j.Ext
		out.Ext = &ext
	}
	return &out
}

// EncodeJWKBytes encodes b as unpadded base64url.
func EncodeJWKBytes(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeJWKBytes decodes a base64url member. Missing '=' padding is restored
// before decoding, so both padded and unpadded input are accepted.
func DecodeJWKBytes(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url data: %v", ErrSyntax, err)
	}
	return b, nil
}

// KeyData is the payload of an import: raw bytes or a JWK, depending on the format.
type KeyData struct {
	Raw []byte
	JWK *JSONWebKey
}

// RawKeyData wraps raw key bytes for import.
func RawKeyData(b []byte) KeyData {
	return KeyData{Raw: b}
}

// JWKKeyData wraps a JWK for import.
func JWKKeyData(jwk *JSONWebKey) KeyData {
	return KeyData{JWK: jwk}
}

// Clone returns a deep copy of the payload.
func (d KeyData) Clone() KeyData {
	return KeyData{Raw: slices.Clone(d.Raw), JWK: d.JWK.Clone()}
}

// ExportedKey is the result of an export. Exactly one of Raw and JWK is set,
// selected by Format.
type ExportedKey struct {
	Format KeyFormat
	Raw    []byte
	JWK    *JSONWebKey
}
