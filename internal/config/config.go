package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service identifies which binary is loading configuration
type Service string

const (
	Catalog  Service = "catalog"
	Shopping Service = "shopping"
)

const defaultFeedURL = "https://fakestoreapi.com/products"

// MemoryDatabase as DATABASE_URL selects in-process storage instead of SQL
const MemoryDatabase = "memory"

// Config holds all configuration for one service
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Service  Service
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	URL string // postgres://..., sqlite://path, :memory: or "memory"
}

// UpstreamConfig covers outbound calls: the product feed for the catalog,
// the catalog API for the shopping list.
type UpstreamConfig struct {
	FeedURL    string
	CatalogURL string
	Timeout      int // seconds
	MaxRetries   int
	RetryDelayMs int
	RatePerSec   float64
	RateBurst    int
}

// WorstCase is the longest one outbound call can take: every attempt runs
// into the timeout and each retry waits the retry delay first.
func (u UpstreamConfig) WorstCase() time.Duration {
	attempts := time.Duration(u.MaxRetries + 1)
	timeout := time.Duration(u.Timeout) * time.Second
	delay := time.Duration(u.RetryDelayMs) * time.Millisecond
	return attempts*timeout + time.Duration(u.MaxRetries)*delay
}

// Load reads configuration for svc from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load(svc Service) (*Config, error) {
	_ = godotenv.Load()

	port, dbURL := "5001", "sqlite://catalog.db"
	if svc == Shopping {
		port, dbURL = "5002", "sqlite://shopping_list.db"
	}

	cfg := &Config{
		Service: svc,
		Server: ServerConfig{
			Port:            getEnv("PORT", port),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", dbURL),
		},
		Upstream: UpstreamConfig{
			FeedURL:      getEnv("PRODUCT_FEED_URL", defaultFeedURL),
			CatalogURL:   getEnv("CATALOG_API_URL", fmt.Sprintf("http://%s:5001/api", getEnv("API_PRINCIPAL_HOST", "localhost"))),
			Timeout:      getEnvAsInt("UPSTREAM_TIMEOUT", 10),
			MaxRetries:   getEnvAsInt("UPSTREAM_RETRIES", 1),
			RetryDelayMs: getEnvAsInt("UPSTREAM_RETRY_DELAY_MS", 200),
			RatePerSec:   getEnvAsFloat("UPSTREAM_RPS", 10),
			RateBurst:    getEnvAsInt("UPSTREAM_BURST", 5),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Service != Catalog && c.Service != Shopping {
		return fmt.Errorf("unknown service: %q", c.Service)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("UPSTREAM_RETRIES must not be negative")
	}

	if c.Upstream.RatePerSec <= 0 || c.Upstream.RateBurst <= 0 {
		return fmt.Errorf("UPSTREAM_RPS and UPSTREAM_BURST must be positive")
	}

	if c.Upstream.RetryDelayMs <= 0 {
		return fmt.Errorf("UPSTREAM_RETRY_DELAY_MS must be positive")
	}

	// A handler waiting on a slow upstream must still be able to write its error response.
	if worst := c.Upstream.WorstCase(); time.Duration(c.Server.WriteTimeout)*time.Second <= worst {
		return fmt.Errorf("WRITE_TIMEOUT (%ds) must exceed the worst-case upstream call (%s)", c.Server.WriteTimeout, worst)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
