// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Projection defaults
	DefaultHorizonMonths int
	MaxRangeMonths       int

	// Audit worker
	ConsumeTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/piano.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "piano"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "entity_changes"),

		DefaultHorizonMonths: getEnvInt("DEFAULT_HORIZON_MONTHS", 12),
		MaxRangeMonths:       getEnvInt("MAX_RANGE_MONTHS", 1200),

		ConsumeTimeout: getEnvDuration("CONSUME_TIMEOUT", 30*time.Second),
	}
}

// Validate checks the configuration and returns all problems as one error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DefaultHorizonMonths < 1 {
		errs = append(errs, fmt.Sprintf("invalid default horizon %d: must be at least 1 month", c.DefaultHorizonMonths))
	}
	if c.MaxRangeMonths < 1 {
		errs = append(errs, fmt.Sprintf("invalid max range %d: must be at least 1 month", c.MaxRangeMonths))
	} else if c.MaxRangeMonths > 12000 {
		errs = append(errs, fmt.Sprintf("invalid max range %d: must be at most 12000 months", c.MaxRangeMonths))
	}
	if c.DefaultHorizonMonths > c.MaxRangeMonths {
		errs = append(errs, "default horizon cannot exceed the max range")
	}

	if c.ConsumeTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid consume timeout %v: must be at least 1 second", c.ConsumeTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
