// Package config provides configuration management for the horoscope backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// AstronomyAPI settings
	AstroAppID     string
	AstroAppSecret string
	AstroBaseURL   string
	AstroCacheTTL  time.Duration
	AstroCacheSize int

	// OpenAI settings
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Postgres settings
	DatabaseURL string

	// Session settings
	SessionSecret string

	// Scheduler settings
	PregenerationEnabled bool
	WarmCategories       bool

	// Server settings
	HTTPAddr string
	Debug    bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		// AstronomyAPI
		AstroAppID:     getEnv("ASTRO_API_ID", ""),
		AstroAppSecret: getEnv("ASTRO_API_SECRET", ""),
		AstroBaseURL:   getEnv("ASTRO_BASE_URL", "https://api.astronomyapi.com"),
		AstroCacheTTL:  getEnvDuration("ASTRO_CACHE_TTL", 2*time.Hour),
		AstroCacheSize: getEnvInt("ASTRO_CACHE_SIZE", 64),

		// OpenAI
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		// Postgres
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/horoscopo"),

		// Sessions
		SessionSecret: getEnv("SESSION_SECRET", ""),

		// Scheduler
		PregenerationEnabled: getEnvBool("PREGENERATION_ENABLED", true),
		WarmCategories:       getEnvBool("PREGENERATION_CATEGORIES", false),

		// Server
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate checks if required configuration is present.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AstroAppID == "" || c.AstroAppSecret == "" {
		log.Warn().Msg("ASTRO_API_ID/ASTRO_API_SECRET not set, position fetches will fail")
	}
	if c.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, content generation will fail")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
