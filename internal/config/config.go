package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the service configuration.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	StoreDriver   string
	DatabaseURL   string
	DatabaseName  string
	StoreTimeout  time.Duration
	RedisURL      string
	CacheTTL      time.Duration
	RabbitMQURL   string
	SeedOnStartup bool
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_NAME", "hardware_store")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SEED_ON_STARTUP", false)
}

// Load reads the configuration from v, which should already have its
// sources (environment, files) attached.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Port:          v.GetString("PORT"),
		Env:           v.GetString("APP_ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DatabaseName:  v.GetString("DATABASE_NAME"),
		StoreTimeout:  v.GetDuration("STORE_TIMEOUT"),
		RedisURL:      v.GetString("REDIS_URL"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		SeedOnStartup: v.GetBool("SEED_ON_STARTUP"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the combinations Load cannot express as defaults.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	if c.RedisURL != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}

// ListenAddr returns the address to bind, accepting "8000" or ":8000".
func (c Config) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// SQLiteDSN returns the sqlite database file, defaulting to an in-memory database.
func (c Config) SQLiteDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "file::memory:?cache=shared"
}
