package engine

import (
	"runtime"
	"time"
)

// Failure policies for records whose transform fails.
const (
	// PolicyAllOrNothing fails the run and writes nothing.
	PolicyAllOrNothing = "all_or_nothing"
	// PolicyBestEffort leaves failed records empty and writes the batch.
	PolicyBestEffort = "best_effort"
)

// Config is the engine section of the application config.
type Config struct {
	Workers       int    `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	ChunkSize     int    `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=0"`
	FailurePolicy string `yaml:"failure_policy" mapstructure:"failure_policy" validate:"omitempty,oneof=all_or_nothing best_effort"`
	// Timeout bounds a whole run. Zero means no deadline.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills unset fields. Zero workers means one per usable CPU.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = PolicyAllOrNothing
	}
}
