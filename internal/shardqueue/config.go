package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups the executor tunables. LoadConfig reads them from
// environment variables under a caller-chosen prefix, e.g.
// SCHEDULER_SQ_SHARDS=8.
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"5"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"10s"`

	// ErrorHandler is called synchronously with every job's final error.
	ErrorHandler func(error) `envconfig:"-"`
}

// LoadConfig populates Config from environment variables with prefix.
func LoadConfig(prefix string) (Config, error) {
	var c Config
	return c, envconfig.Process(prefix, &c)
}

func (c Config) withDefaults() Config {
	if c.Shards <= 0 {
		c.Shards = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 128
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 100 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 10 * time.Second
	}
	return c
}
