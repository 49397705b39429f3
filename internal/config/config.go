// Package config provides configuration management for the dashboard cache
// service. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration to ensure the service
// starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path (default: stdout)
//
// Redis Configuration (L2 distributed tier):
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379; empty disables L2)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Cache Configuration:
//   - CACHE_MAX_ENTRIES: Maximum L1 entry count before eviction (default: 10000)
//   - CACHE_DEFAULT_TTL: Default entry time-to-live (default: 5m)
//   - CACHE_COMPRESSION_THRESHOLD: Serialized size in bytes above which values
//     are compressed (default: 1024)
//   - CACHE_KEY_PREFIX: Namespace prefix for L2 keys (default: "cache:")
//   - CACHE_CLEANUP_INTERVAL: Period of the proactive expiry sweep (default: 1m)
//   - WARM_CONCURRENCY: Worker count for cache warming (default: 8)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the dashboard cache service.
// All fields correspond to environment variables that can be set to override
// the default values. Load the configuration with Load() and validate it with
// Validate() before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path; empty means stdout

	// Redis configuration for the L2 distributed tier
	RedisAddress  string // Redis server address (host:port); empty disables L2
	RedisPassword string // Redis authentication password
	RedisDB       int    // Redis database number (0-15)
	RedisPoolSize int    // Redis connection pool size

	// Cache tuning
	MaxEntries           int           // L1 entry capacity before FIFO eviction
	DefaultTTL           time.Duration // Default entry time-to-live
	CompressionThreshold int           // Serialized bytes above which values compress
	KeyPrefix            string        // Namespace prefix for L2 keys
	CleanupInterval      time.Duration // Period of the proactive expiry sweep
	WarmConcurrency      int           // Worker count for cache warming
}

// Load creates a new Config instance with values loaded from environment
// variables. Unset variables fall back to defaults. Load does not validate;
// call Validate() on the returned Config before use.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		MaxEntries:           getIntEnv("CACHE_MAX_ENTRIES", 10000),
		DefaultTTL:           getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
		CompressionThreshold: getIntEnv("CACHE_COMPRESSION_THRESHOLD", 1024),
		KeyPrefix:            getEnv("CACHE_KEY_PREFIX", "cache:"),
		CleanupInterval:      getDurationEnv("CACHE_CLEANUP_INTERVAL", time.Minute),
		WarmConcurrency:      getIntEnv("WARM_CONCURRENCY", 8),
	}
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value. A missing or
// unparseable value returns the default.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable value (e.g. "30s",
// "5m"). A missing or unparseable value returns the default.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all values are in range before the service starts.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.RedisAddress != "" {
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if c.RedisPoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be a positive number")
	}

	if c.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be a positive duration")
	}

	if c.CompressionThreshold < 0 {
		return fmt.Errorf("CACHE_COMPRESSION_THRESHOLD must not be negative")
	}

	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be a positive duration")
	}

	if c.WarmConcurrency < 1 {
		return fmt.Errorf("WARM_CONCURRENCY must be a positive number")
	}

	return nil
}
