package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RestConfig is the configuration of the REST API binary
type RestConfig struct {
	Port      string            `mapstructure:"port" validate:"required,numeric"`
	Logger    LoggerSettings    `mapstructure:"logger" validate:"required"`
	Database  DatabaseSettings  `mapstructure:"database" validate:"required"`
	Engine    EngineSettings    `mapstructure:"engine" validate:"required"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

// Validate checks the whole configuration tree
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}
	return nil
}

// InitializeRestConfig reads the YAML file at path, overlays environment variables
// prefixed with SUBTLE_CRYPTO (for example SUBTLE_CRYPTO_DATABASE_DSN) and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SUBTLE_CRYPTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("engine.worker_count", DefaultWorkerCount)
	v.SetDefault("engine.queue_size", DefaultQueueSize)
	v.SetDefault("rate_limit.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("rate_limit.burst", DefaultBurst)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
