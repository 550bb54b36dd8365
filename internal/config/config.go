// Package config loads the relay's runtime configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Host string `env:"CHATRELAY_HOST" envDefault:""`
	Port int    `env:"CHATRELAY_PORT" envDefault:"8080"`

	// Storage selects the record store backend: "redis" or "memory".
	// The memory backend loses everything on restart and exists for
	// local development.
	Storage  string `env:"CHATRELAY_STORAGE" envDefault:"redis"`
	RedisURL string `env:"CHATRELAY_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// ChannelSecret keys the channel credential hashes. Changing it
	// invalidates every stored secure-channel password.
	ChannelSecret string `env:"CHATRELAY_CHANNEL_SECRET" envDefault:"d3f4ul753cR3T"`

	// BridgeWebhookURL is where outbound chat is delivered. Empty
	// disables the bridge.
	BridgeWebhookURL string `env:"CHATRELAY_BRIDGE_WEBHOOK_URL" envDefault:""`

	LogLevel string `env:"CHATRELAY_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Storage != "redis" && cfg.Storage != "memory" {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	return cfg, nil
}
