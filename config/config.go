package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Booking  BookingConfig  `yaml:"booking"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration. An empty
// DSN after environment overrides means no datastore is configured; the
// daemon warns and runs on its in-memory store instead of crashing.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BookingConfig holds the reservation policy configuration.
type BookingConfig struct {
	// CapacityMode selects the acceptance policy: "seats" counts
	// capacity per guest, "bookings" counts it per reservation.
	CapacityMode string `yaml:"capacity_mode"`
	// StaticDir is the built frontend served on unmatched routes.
	StaticDir string `yaml:"static_dir"`
	// SeedSlots are capacity rows created at startup when missing.
	SeedSlots []SeedSlot `yaml:"seed_slots"`
}

// SeedSlot declares one bookable (date, time) unit.
type SeedSlot struct {
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	MaxCapacity int    `yaml:"max_capacity"`
}

// Load reads the configuration from the given path and applies
// defaults and environment overrides (PORT, DATABASE_DSN). A missing
// file is not an error: environment-only deployments run on defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}
	if cfg.Booking.CapacityMode == "" {
		cfg.Booking.CapacityMode = "seats"
	}
	if cfg.Booking.StaticDir == "" {
		cfg.Booking.StaticDir = "./dist"
	}

	return &cfg, nil
}
