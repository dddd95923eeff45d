package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/keys"
)

const usageSeparator = ","

// KeyModel is the GORM database model for keyring entries (infrastructure concern)
type KeyModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	Name            string    `gorm:"not null;index;type:varchar(255)"`
	Algorithm       string    `gorm:"not null;index;type:varchar(20)"`
	KeySize         uint16    `gorm:"type:integer"`
	Type            string    `gorm:"type:varchar(20)"`
	Extractable     bool      `gorm:"not null"`
	Usages          string    `gorm:"type:varchar(255)"`
	Material        string    `gorm:"not null;type:text"`
	DateTimeCreated time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (KeyModel) TableName() string {
	return "keys"
}

// ToDomain converts GORM model to domain entity
func (m *KeyModel) ToDomain() *keys.KeyMeta {
	var usages []string
	if m.Usages != "" {
		usages = strings.Split(m.Usages, usageSeparator)
	}
	return &keys.KeyMeta{
		ID:              m.ID,
		Name:            m.Name,
		Algorithm:       m.Algorithm,
		KeySize:         m.KeySize,
		Type:            m.Type,
		Extractable:     m.Extractable,
		Usages:          usages,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model. Material is left untouched.
func (m *KeyModel) FromDomain(k *keys.KeyMeta) {
	m.ID = k.ID
	m.Name = k.Name
	m.Algorithm = k.Algorithm
	m.KeySize = k.KeySize
	m.Type = k.Type
	m.Extractable = k.Extractable
	m.Usages = strings.Join(k.Usages, usageSeparator)
	m.DateTimeCreated = k.DateTimeCreated
}

// SetMaterial stores jwk as JSON text
func (m *KeyModel) SetMaterial(jwk *crypto.JSONWebKey) error {
	if jwk == nil {
		return fmt.Errorf("key material cannot be nil")
	}
	encoded, err := json.Marshal(jwk)
	if err != nil {
		return fmt.Errorf("failed to encode key material: %w", err)
	}
	m.Material = string(encoded)
	return nil
}

// MaterialJWK decodes the stored key material
func (m *KeyModel) MaterialJWK() (*crypto.JSONWebKey, error) {
	var jwk crypto.JSONWebKey
	if err := json.Unmarshal([]byte(m.Material), &jwk); err != nil {
		return nil, fmt.Errorf("failed to decode key material: %w", err)
	}
	return &jwk, nil
}
