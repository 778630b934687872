package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the network tunables of the fetch engine. Every field can be
// overridden from the environment.
type Config struct {
	ConnectTimeout time.Duration `env:"KEGFETCH_CONNECT_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"KEGFETCH_READ_TIMEOUT" envDefault:"5s"`
	RetryInterval  time.Duration `env:"KEGFETCH_RETRY_INTERVAL" envDefault:"1s"`
	UserAgent      string        `env:"KEGFETCH_USER_AGENT" envDefault:"kegfetch"`
	DefaultRetries int           `env:"KEGFETCH_RETRIES" envDefault:"4"`
}

func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		RetryInterval:  1 * time.Second,
		UserAgent:      "kegfetch",
		DefaultRetries: 4,
	}
}

// Load reads the configuration from the environment, falling back to the
// defaults for unset variables.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.ConnectTimeout <= 0:
		return fmt.Errorf("connect timeout must be positive, got %s", c.ConnectTimeout)
	case c.ReadTimeout <= 0:
		return fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout)
	case c.RetryInterval < 0:
		return fmt.Errorf("retry interval must not be negative, got %s", c.RetryInterval)
	case c.DefaultRetries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.DefaultRetries)
	}
	return nil
}
