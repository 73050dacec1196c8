// Package config holds the server runtime configuration
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration, populated from the environment
type Config struct {
	Port  string `env:"PORT"  envDefault:"8080"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	// Time each side starts with and how often the active clock decrements
	InitialTimeSeconds int           `env:"INITIAL_TIME_SECONDS" envDefault:"600"`
	TickInterval       time.Duration `env:"TICK_INTERVAL"        envDefault:"1s"`

	// Optional comma-separated API keys; auth is disabled when empty
	APIKeys []string `env:"API_KEYS" envSeparator:","`

	// Allowed Origin header for WebSocket upgrades; empty allows any
	FrontendPath string `env:"FRONTEND_PATH"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
