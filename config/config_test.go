package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRICER_ADDR", "PRICER_DB_PATH", "PRICER_ENFORCE_NO_ARBITRAGE", "LOG_LEVEL", "GIN_MODE",
		"ALPACA_API_KEY", "ALPACA_SECRET_KEY", "ALPACA_DATA_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Empty(t, cfg.DatabasePath)
	assert.True(t, cfg.EnforceNoArbitrage)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "release", cfg.GinMode)
	assert.False(t, cfg.HasAlpacaCredentials())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PRICER_ADDR=127.0.0.1:9090\n" +
		"PRICER_DB_PATH=./data/pricing.db\n" +
		"PRICER_ENFORCE_NO_ARBITRAGE=false\n" +
		"LOG_LEVEL=debug\n" +
		"ALPACA_API_KEY=key\n" +
		"ALPACA_SECRET_KEY=secret\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv does not override variables that are already set, even to empty
	for _, key := range []string{"PRICER_ADDR", "PRICER_DB_PATH", "PRICER_ENFORCE_NO_ARBITRAGE", "LOG_LEVEL", "ALPACA_API_KEY", "ALPACA_SECRET_KEY"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddr)
	assert.Equal(t, "./data/pricing.db", cfg.DatabasePath)
	assert.False(t, cfg.EnforceNoArbitrage)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.HasAlpacaCredentials())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load("")
	assert.ErrorContains(t, err, "LOG_LEVEL")

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PRICER_ENFORCE_NO_ARBITRAGE", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "PRICER_ENFORCE_NO_ARBITRAGE")
}
