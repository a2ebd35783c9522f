package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Wizard   WizardConfig
	Carousel CarouselConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// BackendConfig holds upstream storefront backend configuration
type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryCount    int
	RetryWait     time.Duration
	RetryMaxWait  time.Duration
	CSRFPrimePath string
}

// WizardConfig holds onboarding wizard session configuration
type WizardConfig struct {
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

// CarouselConfig holds landing-page carousel configuration
type CarouselConfig struct {
	Interval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Backend: BackendConfig{
			BaseURL:       strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8000"), "/"),
			Timeout:       getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
			RetryCount:    getEnvAsInt("BACKEND_RETRY_COUNT", 2),
			RetryWait:     getEnvAsDuration("BACKEND_RETRY_WAIT", 500*time.Millisecond),
			RetryMaxWait:  getEnvAsDuration("BACKEND_RETRY_MAX_WAIT", 3*time.Second),
			CSRFPrimePath: getEnv("BACKEND_CSRF_PRIME_PATH", "/api/products/"),
		},
		Wizard: WizardConfig{
			SessionTTL:      getEnvAsDuration("WIZARD_SESSION_TTL", 2*time.Hour),
			CleanupInterval: getEnvAsDuration("WIZARD_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Carousel: CarouselConfig{
			Interval: getEnvAsDuration("CAROUSEL_INTERVAL", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
