//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseSettingsValidation(t *testing.T) {
	sqlite := DatabaseSettings{Type: SqliteDbType, DSN: "file:keyring.db", DBName: "keyring"}
	postgres := DatabaseSettings{Type: PostgresDbType, DSN: "host=localhost user=postgres password=postgres port=5432 sslmode=disable", DBName: "keyring"}

	assert.NoError(t, sqlite.Validate())
	assert.NoError(t, postgres.Validate())

	invalid := map[string]func(s *DatabaseSettings){
		"unsupported type": func(s *DatabaseSettings) { s.Type = "mysql" },
		"missing type":     func(s *DatabaseSettings) { s.Type = "" },
		"missing dsn":      func(s *DatabaseSettings) { s.DSN = "" },
		"missing name":     func(s *DatabaseSettings) { s.DBName = "" },
	}

	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			settings := sqlite
			mutate(&settings)
			assert.Error(t, settings.Validate())
		})
	}
}
