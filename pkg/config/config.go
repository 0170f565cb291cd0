package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Cache CacheConfig
}

type AppConfig struct {
	Port      string `envconfig:"PRICING_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"PRICING_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"PRICING_LOG_FORMAT" default:"json"`
}

type DBConfig struct {
	Host     string `envconfig:"PRICING_DB_HOST" required:"true"`
	Port     int    `envconfig:"PRICING_DB_PORT" default:"5432"`
	User     string `envconfig:"PRICING_DB_USER" required:"true"`
	Password string `envconfig:"PRICING_DB_PASSWORD" required:"true"`
	Name     string `envconfig:"PRICING_DB_NAME" required:"true"`
	SSLMode  string `envconfig:"PRICING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICING_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// RedisConfig selects the shared rule cache; an empty Addr keeps the cache
// in-process.
type RedisConfig struct {
	Addr     string `envconfig:"PRICING_REDIS_ADDR"`
	Password string `envconfig:"PRICING_REDIS_PASSWORD"`
	DB       int    `envconfig:"PRICING_REDIS_DB" default:"0"`
}

type CacheConfig struct {
	RuleTTL time.Duration `envconfig:"PRICING_CACHE_RULE_TTL" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
