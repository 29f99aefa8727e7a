package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-sourced setting. It is built once in the
// entrypoints and injected explicitly; business logic never reads the
// environment on its own.
type Config struct {
	// HTTP server
	Port              string
	DashboardPassword string

	// Notion source
	NotionToken        string
	TransactionsDBID   string
	SubCategoriesDBID  string
	MainCategoriesDBID string

	// Pipeline
	DefaultCurrency string
	RefreshInterval time.Duration // 0 disables the interval scheduler
	RefreshTimeout  time.Duration

	// Logging
	LogLevel string
}

// Load reads the configuration from environment variables, applying defaults
// where a value is optional.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DashboardPassword: getEnv("DASHBOARD_PASSWORD", ""),

		NotionToken:        getEnv("NOTION_TOKEN", ""),
		TransactionsDBID:   getEnv("TRANSACTIONS_DB_ID", ""),
		SubCategoriesDBID:  getEnv("SUB_CATEGORIES_DB_ID", ""),
		MainCategoriesDBID: getEnv("MAIN_CATEGORIES_DB_ID", ""),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "JPY"),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 0),
		RefreshTimeout:  getEnvDuration("REFRESH_TIMEOUT", 60*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error naming every
// missing or invalid field.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.NotionToken == "" {
		errs = append(errs, "NOTION_TOKEN is required")
	}
	if c.TransactionsDBID == "" {
		errs = append(errs, "TRANSACTIONS_DB_ID is required")
	}
	if c.SubCategoriesDBID == "" {
		errs = append(errs, "SUB_CATEGORIES_DB_ID is required")
	}
	if c.MainCategoriesDBID == "" {
		errs = append(errs, "MAIN_CATEGORIES_DB_ID is required")
	}
	if c.DashboardPassword == "" {
		errs = append(errs, "DASHBOARD_PASSWORD is required")
	}

	if c.RefreshTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid refresh timeout %v: must be at least 1 second", c.RefreshTimeout))
	}
	if c.RefreshInterval != 0 && c.RefreshInterval < 10*time.Second {
		errs = append(errs, fmt.Sprintf("invalid refresh interval %v: must be 0 (disabled) or at least 10 seconds", c.RefreshInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
