package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the usage tracking plugin configuration.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Tracking TrackingConfig
}

// DatabaseConfig contains usage store connection settings.
// Driver must be one of the supported dialects (sqlite3, postgres).
type DatabaseConfig struct {
	Driver       string `env:"USAGE_DB_DRIVER"         envDefault:"sqlite3"`
	DSN          string `env:"USAGE_DB_DSN"            envDefault:"file:usage_costs.db?_busy_timeout=5000"`
	MaxOpenConns int    `env:"USAGE_DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int    `env:"USAGE_DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// RedisConfig contains summary report cache settings.
// An empty Addr disables the cache entirely.
type RedisConfig struct {
	Addr       string        `env:"USAGE_REDIS_ADDR"`
	SummaryTTL time.Duration `env:"USAGE_SUMMARY_CACHE_TTL" envDefault:"60s"`
}

// TrackingConfig contains per-request tracking behavior settings.
type TrackingConfig struct {
	PersistUsage bool `env:"USAGE_PERSIST" envDefault:"true"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*DatabaseConfig
	*RedisConfig
	*TrackingConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Database,
		&cfg.Redis,
		&cfg.Tracking,
	}
}
