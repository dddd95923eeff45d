// Package persistence stores the keyring in a relational database through
// GORM. SQLite and PostgreSQL are supported; key material is kept as JWK
// JSON next to its metadata.
package persistence
