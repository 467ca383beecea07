package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"STATIC_DIR", "SITE_URL", "SITEMAP_MODE", "GOOGLE_SITE_VERIFICATION",
	"RATES_API_BASE_URL", "RATES_API_TIMEOUT", "RATES_REFRESH_CRON",
	"RATES_CACHE_WINDOW", "RATES_CACHE_BACKEND", "RATES_SINGLE_FLIGHT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "public", cfg.Site.StaticDir)
	assert.Equal(t, "https://convertisseur-xof.vercel.app", cfg.Site.BaseURL)
	assert.Equal(t, SitemapDynamic, cfg.Site.SitemapMode)
	assert.Equal(t, "5b9d6a33a63bfe61", cfg.Site.GoogleVerification)
	assert.Equal(t, "https://api.exchangerate-api.com", cfg.RatesAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RatesAPI.Timeout)
	assert.Empty(t, cfg.RatesAPI.RefreshCron)
	assert.Equal(t, time.Hour, cfg.Cache.Window)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.True(t, cfg.Cache.SingleFlight)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Empty(t, cfg.Warnings)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("SITE_URL", "https://example.org/")
	t.Setenv("SITEMAP_MODE", "STATIC")
	t.Setenv("RATES_CACHE_WINDOW", "15m")
	t.Setenv("RATES_CACHE_BACKEND", "badger")
	t.Setenv("RATES_SINGLE_FLIGHT", "false")
	t.Setenv("RATES_REFRESH_CRON", "@every 30m")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "https://example.org", cfg.Site.BaseURL)
	assert.Equal(t, SitemapStatic, cfg.Site.SitemapMode)
	assert.Equal(t, 15*time.Minute, cfg.Cache.Window)
	assert.Equal(t, BackendBadger, cfg.Cache.Backend)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Equal(t, "@every 30m", cfg.RatesAPI.RefreshCron)
}

func TestFromEnvMalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "three-thousand")
	t.Setenv("RATES_API_TIMEOUT", "soon")
	t.Setenv("RATES_SINGLE_FLIGHT", "maybe")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.RatesAPI.Timeout)
	assert.True(t, cfg.Cache.SingleFlight)
	assert.Len(t, cfg.Warnings, 3)
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string]string{
		"SITEMAP_MODE":        "hybrid",
		"RATES_CACHE_BACKEND": "redis",
		"PORT":                "70000",
		"RATES_CACHE_WINDOW":  "-1m",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			cfg, err := FromEnv()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=4040\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4040, cfg.Server.Port)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	clearEnv(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}
