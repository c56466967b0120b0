package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime settings for the pricer
type Config struct {
	ServerAddr         string
	DatabasePath       string // empty disables the pricing journal
	EnforceNoArbitrage bool
	LogLevel           logrus.Level
	GinMode            string

	AlpacaAPIKey    string
	AlpacaSecretKey string
	AlpacaDataURL   string
}

// Load reads an optional .env file and builds the configuration from the environment.
// A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	enforce, err := strconv.ParseBool(getEnv("PRICER_ENFORCE_NO_ARBITRAGE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICER_ENFORCE_NO_ARBITRAGE: %w", err)
	}

	return &Config{
		ServerAddr:         getEnv("PRICER_ADDR", ":8080"),
		DatabasePath:       os.Getenv("PRICER_DB_PATH"),
		EnforceNoArbitrage: enforce,
		LogLevel:           level,
		GinMode:            getEnv("GIN_MODE", "release"),
		AlpacaAPIKey:       os.Getenv("ALPACA_API_KEY"),
		AlpacaSecretKey:    os.Getenv("ALPACA_SECRET_KEY"),
		AlpacaDataURL:      os.Getenv("ALPACA_DATA_URL"),
	}, nil
}

// HasAlpacaCredentials reports whether market data lookups can be enabled
func (c *Config) HasAlpacaCredentials() bool {
	return c.AlpacaAPIKey != "" && c.AlpacaSecretKey != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
