package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Engine defaults
const (
	DefaultWorkerCount = 1
	DefaultQueueSize   = 1024
)

// EngineSettings sizes the worker pool that runs the asynchronous half of every operation.
// More than one worker gives up the FIFO ordering of scheduled tasks.
type EngineSettings struct {
	WorkerCount int `mapstructure:"worker_count" validate:"min=1,max=256"`
	QueueSize   int `mapstructure:"queue_size" validate:"min=1,max=1000000"`
}

// DefaultEngineSettings returns a single worker with a queue of DefaultQueueSize tasks
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{WorkerCount: DefaultWorkerCount, QueueSize: DefaultQueueSize}
}

// Validate checks that all fields in EngineSettings are valid
func (s *EngineSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for EngineSettings: %w", err)
	}
	return nil
}
