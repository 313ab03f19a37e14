// Package config loads runtime configuration from .env files and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration
type Config struct {
	DB  DBConfig
	Log LogConfig
}

// DBConfig describes the database connection
type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	Dialect         string // Explicit dialect name; empty means detect from the driver
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// LogConfig describes the process logger
type LogConfig struct {
	Level  string
	Format string // console or json
	File   string // Optional rotating log file
}

// LoadDotEnv loads the first .env file found in paths. It reports the path loaded, "" if none.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads configuration from the environment, after loading a .env file if present
func Load() (*Config, error) {
	if p := LoadDotEnv(); p != "" {
		log.Printf("Loaded .env from %s", p)
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			DSN:      os.Getenv("DB_DSN"),
			Host:     os.Getenv("TIDB_HOST"),
			Port:     getEnv("TIDB_PORT", "4000"),
			User:     os.Getenv("TIDB_USER"),
			Password: os.Getenv("TIDB_PASSWORD"),
			Database: os.Getenv("TIDB_DATABASE"),
			Dialect:  os.Getenv("DB_DIALECT"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	maxOpen, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	cfg.DB.MaxOpenConns = maxOpen

	lifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.DB.ConnMaxLifetime = lifetime

	if cfg.DB.DSN == "" && cfg.DB.Host == "" {
		return nil, fmt.Errorf("either DB_DSN or TIDB_HOST must be set")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
