//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRestConfig = `
port: "9090"
logger:
  log_level: debug
  log_type: console
database:
  type: sqlite
  dsn: ":memory:"
  name: keyring
engine:
  worker_count: 2
  queue_size: 64
rate_limit:
  requests_per_minute: 0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeRestConfig(t *testing.T) {
	cfg, err := InitializeRestConfig(writeConfig(t, testRestConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, LogLevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.Equal(t, "keyring", cfg.Database.DBName)
	assert.Equal(t, 2, cfg.Engine.WorkerCount)
	assert.Equal(t, 64, cfg.Engine.QueueSize)
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestInitializeRestConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv("SUBTLE_CRYPTO_DATABASE_DSN", "file:keyring.db")

	cfg, err := InitializeRestConfig(writeConfig(t, testRestConfig))
	require.NoError(t, err)
	assert.Equal(t, "file:keyring.db", cfg.Database.DSN)
}

func TestInitializeRestConfig_Defaults(t *testing.T) {
	cfg, err := InitializeRestConfig(writeConfig(t, `
database:
  type: sqlite
  dsn: ":memory:"
  name: keyring
`))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, LogTypeConsole, cfg.Logger.LogType)
	assert.Equal(t, DefaultEngineSettings(), cfg.Engine)
	assert.Equal(t, DefaultRequestsPerMinute, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, DefaultBurst, cfg.RateLimit.Burst)
}

func TestInitializeRestConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing database",
			content: "port: \"8080\"\n",
		},
		{
			name: "invalid engine settings",
			content: `
database:
  type: sqlite
  dsn: ":memory:"
  name: keyring
engine:
  worker_count: 0
  queue_size: 1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitializeRestConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := InitializeRestConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestEngineSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      EngineSettings
		expectedError bool
	}{
		{"defaults", DefaultEngineSettings(), false},
		{"zero workers", EngineSettings{WorkerCount: 0, QueueSize: 10}, true},
		{"zero queue", EngineSettings{WorkerCount: 1, QueueSize: 0}, true},
		{"too many workers", EngineSettings{WorkerCount: 1000, QueueSize: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateLimitSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      RateLimitSettings
		expectedError bool
	}{
		{"disabled", RateLimitSettings{}, false},
		{"enabled", RateLimitSettings{RequestsPerMinute: 60, Burst: 10}, false},
		{"enabled without burst", RateLimitSettings{RequestsPerMinute: 60}, true},
		{"negative rate", RateLimitSettings{RequestsPerMinute: -1, Burst: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
