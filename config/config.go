// Package config provides configuration for the chatbot backend.
// Defaults are overlaid by an optional YAML file (QUALIBOT_CONFIG),
// then by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the backend configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Redis cache; empty address disables the cache entirely.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Conversation settings
	SessionTimeoutMinutes int `yaml:"session_timeout_minutes"`
	HistoryWindow         int `yaml:"history_window"`

	// Transport settings
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Background jobs
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from defaults, the optional YAML file
// named by QUALIBOT_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:               8080,
		DatabaseURL:            "file:qualibot.db?cache=shared&mode=rwc",
		SessionTimeoutMinutes:  60,
		HistoryWindow:          10,
		RateLimitPerMinute:     100,
		CleanupIntervalMinutes: 5,
		LogLevel:               "info",
	}

	if path := os.Getenv("QUALIBOT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.SessionTimeoutMinutes = getEnvInt("SESSION_TIMEOUT_MINUTES", cfg.SessionTimeoutMinutes)
	cfg.HistoryWindow = getEnvInt("HISTORY_WINDOW", cfg.HistoryWindow)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.CleanupIntervalMinutes = getEnvInt("CLEANUP_INTERVAL_MINUTES", cfg.CleanupIntervalMinutes)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

// SessionTimeout is the session expiry window as a duration.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMinutes) * time.Minute
}

// CleanupInterval is the expired-session sweep period as a duration.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
