package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Market metadata collaborator
	GammaURL         string
	MetadataTimeout  time.Duration
	MetadataRetries  int
	MetadataCacheTTL time.Duration

	// ML inference collaborator
	MLPredictURL string
	MLTimeout    time.Duration
	MLRetries    int

	// Scoring
	BankrollUSD           float64
	KellyFraction         float64
	DefaultMaxSlippagePct float64
	MinProfileSample      int64

	// Storage
	StorageMode  string // "postgres" or "memory"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Metadata collaborator defaults
		GammaURL:         getEnvOrDefault("POLYMARKET_GAMMA_API_URL", "https://gamma-api.polymarket.com"),
		MetadataTimeout:  getDurationOrDefault("METADATA_TIMEOUT", 5*time.Second),
		MetadataRetries:  getIntOrDefault("METADATA_RETRIES", 2),
		MetadataCacheTTL: getDurationOrDefault("METADATA_CACHE_TTL", 24*time.Hour),

		// ML collaborator defaults
		MLPredictURL: getEnvOrDefault("ML_PREDICT_URL", "http://localhost:8501/predict"),
		MLTimeout:    getDurationOrDefault("ML_TIMEOUT", 3*time.Second),
		MLRetries:    getIntOrDefault("ML_RETRIES", 2),

		// Scoring defaults
		BankrollUSD:           getFloat64OrDefault("SCORING_BANKROLL_USD", 4000.0),
		KellyFraction:         getFloat64OrDefault("SCORING_KELLY_FRACTION", 0.25),
		DefaultMaxSlippagePct: getFloat64OrDefault("SCORING_MAX_SLIPPAGE_PCT", 5.0),
		MinProfileSample:      int64(getIntOrDefault("SCORING_MIN_PROFILE_SAMPLE", 5)),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "memory"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "polycopy"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "polycopy123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "polycopy"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.GammaURL == "" {
		return fmt.Errorf("POLYMARKET_GAMMA_API_URL cannot be empty")
	}

	if c.BankrollUSD <= 0 {
		return fmt.Errorf("SCORING_BANKROLL_USD must be positive, got %f", c.BankrollUSD)
	}

	if c.KellyFraction <= 0 || c.KellyFraction > 1.0 {
		return fmt.Errorf("SCORING_KELLY_FRACTION must be in (0, 1], got %f", c.KellyFraction)
	}

	if c.DefaultMaxSlippagePct <= 0 || c.DefaultMaxSlippagePct > 100 {
		return fmt.Errorf("SCORING_MAX_SLIPPAGE_PCT must be in (0, 100], got %f", c.DefaultMaxSlippagePct)
	}

	if c.MinProfileSample < 1 {
		return fmt.Errorf("SCORING_MIN_PROFILE_SAMPLE must be at least 1, got %d", c.MinProfileSample)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "memory" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'memory', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
