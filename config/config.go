// Package config loads client configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the client reads from the environment. Flags on
// the command line override these.
type Config struct {
	// BaseURL is the backend's base URL.
	BaseURL string `env:"WOWO_API_BASE_URL" envDefault:"http://localhost:3000"`

	// StatePath overrides where durable client state is stored.
	StatePath string `env:"WOWO_STATE_PATH"`

	// LogFile receives diagnostics. The TUI owns the terminal, so nothing
	// is logged unless a file is configured.
	LogFile string `env:"WOWO_LOG_FILE"`

	// Debug lowers the log level to debug.
	Debug bool `env:"WOWO_DEBUG" envDefault:"false"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
