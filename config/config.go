package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: LINK_CHECK_CONCURRENCY must be 1-100")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                  string
	GinMode               string
	LogLevel              string
	PageSpeedAPIKey       string
	LinkCheckConcurrency  int
	BlockPrivateAddresses bool
	DataDir               string
}

// Load reads configuration from .env files and environment variables.
// .env.development takes precedence over .env for local development.
func Load() (Config, error) {
	if err := godotenv.Load(".env.development"); err != nil {
		_ = godotenv.Load()
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8082"),
		GinMode:               getEnv("GIN_MODE", "release"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		PageSpeedAPIKey:       os.Getenv("PAGESPEED_API_KEY"),
		LinkCheckConcurrency:  getEnvAsInt("LINK_CHECK_CONCURRENCY", 10),
		BlockPrivateAddresses: getEnvAsBool("BLOCK_PRIVATE_ADDRESSES", true),
		DataDir:               getEnv("DATA_DIR", "data"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LinkCheckConcurrency < 1 || c.LinkCheckConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.LinkCheckConcurrency)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}
