package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dailybaht/internal/core"
)

// Config is the env-driven process configuration. The budget/currency
// fields are only the initial defaults used until the user persists their
// own settings; after that the stored settings object wins.
type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// Initial settings defaults
	DefaultBudget string
	HomeCurrency  string
	ExchangeRate  float64

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8084"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/dailybaht.db"),
		DefaultBudget: getEnv("DEFAULT_BUDGET", "1000"),
		HomeCurrency:  getEnv("HOME_CURRENCY", "USD"),
		ExchangeRate:  getEnvFloat("EXCHANGE_RATE", 0.029),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if _, err := core.ParseDecimalToCents(c.DefaultBudget); err != nil {
		errors = append(errors, fmt.Sprintf("invalid default budget '%s': must be a positive decimal", c.DefaultBudget))
	}

	if strings.TrimSpace(c.HomeCurrency) == "" {
		errors = append(errors, "home currency cannot be empty")
	}

	if c.ExchangeRate <= 0 {
		errors = append(errors, fmt.Sprintf("invalid exchange rate %v: must be positive", c.ExchangeRate))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// DefaultSettings builds the settings fallback handed to the store.
// Validate must have passed before calling this.
func (c *Config) DefaultSettings() core.Settings {
	budget, err := core.ParseMoney(c.DefaultBudget)
	if err != nil {
		budget = core.Money{Cents: 100000} // ฿1000
	}
	return core.Settings{
		DarkMode:      false,
		HomeCurrency:  strings.ToUpper(strings.TrimSpace(c.HomeCurrency)),
		ExchangeRate:  c.ExchangeRate,
		DefaultBudget: budget,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
