package cli

import (
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerName string
	PlayerUID  string
	Output     string
	Timeout    time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("RELAYCTL_SERVER", "http://localhost:8080"),
		PlayerName: getEnvOrDefault("RELAYCTL_PLAYER_NAME", "relayctl"),
		PlayerUID:  getEnvOrDefault("RELAYCTL_PLAYER_UID", "0"),
		Output:     "text",
		Timeout:    2 * time.Second,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
