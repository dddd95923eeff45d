package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LoggerSettings holds configuration settings for logging, including log level, type and file path.
// Rotation settings are only required for the file logger.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=info debug error warning critical"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path" validate:"required_if=LogType file"`
	MaxSize    int    `mapstructure:"max_size" validate:"required_if=LogType file,omitempty,min=1,max=100"`
	MaxBackups int    `mapstructure:"max_backups" validate:"required_if=LogType file,omitempty,min=1,max=10"`
	MaxAge     int    `mapstructure:"max_age" validate:"required_if=LogType file,omitempty,min=1,max=365"`
}

// Validate checks that all fields in LoggerSettings are valid
func (s *LoggerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}
	return nil
}
