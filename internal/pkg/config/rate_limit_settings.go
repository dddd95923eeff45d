package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rate limit defaults
const (
	DefaultRequestsPerMinute = 600
	DefaultBurst             = 60
)

// RateLimitSettings throttles REST requests per client IP. A RequestsPerMinute of 0 turns throttling off.
type RateLimitSettings struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=0"`
	Burst             int `mapstructure:"burst" validate:"required_unless=RequestsPerMinute 0,omitempty,min=1"`
}

// Enabled reports whether requests are throttled
func (s *RateLimitSettings) Enabled() bool {
	return s.RequestsPerMinute > 0
}

// Validate checks that all fields in RateLimitSettings are valid
func (s *RateLimitSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RateLimitSettings: %w", err)
	}
	return nil
}
