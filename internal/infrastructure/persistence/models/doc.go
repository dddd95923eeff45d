// Package models contains the GORM models of the keyring tables. They are
// kept apart from the domain types and converted with ToDomain/FromDomain.
package models
