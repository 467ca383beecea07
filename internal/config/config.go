package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sitemap modes
const (
	SitemapDynamic = "dynamic"
	SitemapStatic  = "static"
)

// Cache backends
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

type Config struct {
	Server   ServerConfig
	Site     SiteConfig
	RatesAPI RatesAPIConfig
	Cache    CacheConfig
	LogLevel string

	// Warnings collects values that were malformed and replaced by defaults
	Warnings []string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SiteConfig struct {
	StaticDir          string
	BaseURL            string
	SitemapMode        string
	GoogleVerification string
}

type RatesAPIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RefreshCron string
}

type CacheConfig struct {
	Window       time.Duration
	Backend      string
	SingleFlight bool
}

// Load reads an optional .env file then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         cfg.getEnvInt("PORT", 3000),
		ReadTimeout:  cfg.getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: cfg.getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  cfg.getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
	cfg.Site = SiteConfig{
		StaticDir:          getEnvString("STATIC_DIR", "public"),
		BaseURL:            strings.TrimRight(getEnvString("SITE_URL", "https://convertisseur-xof.vercel.app"), "/"),
		SitemapMode:        strings.ToLower(getEnvString("SITEMAP_MODE", SitemapDynamic)),
		GoogleVerification: getEnvString("GOOGLE_SITE_VERIFICATION", "5b9d6a33a63bfe61"),
	}
	cfg.RatesAPI = RatesAPIConfig{
		BaseURL:     strings.TrimRight(getEnvString("RATES_API_BASE_URL", "https://api.exchangerate-api.com"), "/"),
		Timeout:     cfg.getEnvDuration("RATES_API_TIMEOUT", 10*time.Second),
		RefreshCron: getEnvString("RATES_REFRESH_CRON", ""),
	}
	cfg.Cache = CacheConfig{
		Window:       cfg.getEnvDuration("RATES_CACHE_WINDOW", time.Hour),
		Backend:      strings.ToLower(getEnvString("RATES_CACHE_BACKEND", BackendMemory)),
		SingleFlight: cfg.getEnvBool("RATES_SINGLE_FLIGHT", true),
	}
	cfg.LogLevel = getEnvString("LOG_LEVEL", "INFO")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Site.SitemapMode {
	case SitemapDynamic, SitemapStatic:
	default:
		return fmt.Errorf("SITEMAP_MODE must be %q or %q, got %q", SitemapDynamic, SitemapStatic, c.Site.SitemapMode)
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendBadger:
	default:
		return fmt.Errorf("RATES_CACHE_BACKEND must be %q or %q, got %q", BackendMemory, BackendBadger, c.Cache.Backend)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	if c.Cache.Window <= 0 {
		return fmt.Errorf("RATES_CACHE_WINDOW must be positive, got %s", c.Cache.Window)
	}

	return nil
}

// Addr returns the listen address for http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	valueStr := getEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		c.warn(key, valueStr, strconv.Itoa(defaultValue))
		return defaultValue
	}
	return value
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		c.warn(key, valueStr, defaultValue.String())
		return defaultValue
	}
	return value
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	valueStr := getEnvString(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		c.warn(key, valueStr, strconv.FormatBool(defaultValue))
		return defaultValue
	}
	return value
}

func (c *Config) warn(key, value, fallback string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid value %q for %s, using default %s", value, key, fallback))
}
