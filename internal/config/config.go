package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port      string
	JWTSecret string
	LocalDB   string
	Remote    RemoteConfig
	Alerts    AlertConfig
}

// RemoteConfig holds the coordination office data API settings
type RemoteConfig struct {
	URL    string
	APIKey string
}

// AlertConfig holds broadcast alert polling settings
type AlertConfig struct {
	PollIntervalSeconds int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	remoteURL := os.Getenv("REMOTE_URL")
	if remoteURL == "" {
		return nil, fmt.Errorf("REMOTE_URL is required")
	}

	return &Config{
		Port:      getEnv("PORT", "8787"),
		JWTSecret: jwtSecret,
		LocalDB:   getEnv("LOCAL_DB_PATH", "./vigilancia.db"),
		Remote: RemoteConfig{
			URL:    remoteURL,
			APIKey: os.Getenv("REMOTE_API_KEY"),
		},
		Alerts: AlertConfig{
			PollIntervalSeconds: getEnvInt("ALERT_POLL_INTERVAL", 60),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
