// Package config loads server settings from environment variables.
//
// Every setting has a default so the server starts with no environment at
// all. .env files are not read.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the development signing secret. Production refuses it.
const DefaultJWTSecret = "dev_secret_change_me"

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

var ErrInsecureSecret = errors.New("config: JWT_SECRET must be set in production")

// Config holds the server configuration.
type Config struct {
	Port        int
	JWTSecret   string
	Env         string
	StoreDriver string
	DataDir     string
	DBPath      string
	TokenTTL    time.Duration
	BcryptCost  int
	LogLevel    slog.Level
}

// Production reports whether APP_ENV is "production".
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// InsecureSecret reports whether the signing secret is the built-in default.
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, which returns "" for unset
// variables.
func LoadFrom(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		JWTSecret:   get("JWT_SECRET", DefaultJWTSecret),
		Env:         get("APP_ENV", "development"),
		StoreDriver: strings.ToLower(get("STORE_DRIVER", DriverFile)),
		DataDir:     get("DATA_DIR", "server_data"),
	}
	cfg.DBPath = get("DB_PATH", filepath.Join(cfg.DataDir, "sehyaatri.db"))

	port, err := strconv.Atoi(get("PORT", "5175"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("config: invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	cost, err := strconv.Atoi(get("BCRYPT_COST", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid BCRYPT_COST %q", getenv("BCRYPT_COST"))
	}
	cfg.BcryptCost = cost

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverFile, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q (want %q or %q)",
			cfg.StoreDriver, DriverFile, DriverSQLite)
	}

	if cfg.Production() && cfg.InsecureSecret() {
		return Config{}, ErrInsecureSecret
	}

	return cfg, nil
}
