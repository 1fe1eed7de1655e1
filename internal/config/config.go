// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverREST     = "rest"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
	LogMode string `env:"LOG_MODE" envDefault:"production"`
	LogFile string `env:"LOG_FILE"`

	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"rest"`
	StoreURL         string        `env:"STORE_URL"`
	StoreKey         string        `env:"STORE_KEY"`
	StoreTimeout     time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	StoreReadRetries uint          `env:"STORE_READ_RETRIES" envDefault:"1"`
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	NodeID           int64         `env:"NODE_ID" envDefault:"1"`

	JWTSecret string `env:"JWT_SECRET"`

	RedisAddr      string   `env:"REDIS_ADDR"`
	CacheWarmupIDs []string `env:"CACHE_WARMUP_IDS" envSeparator:","`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"webshop.notifications"`

	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
	NotifyFormat     string `env:"NOTIFY_FORMAT" envDefault:"json"`
	NotifyWorkers    int    `env:"NOTIFY_WORKERS" envDefault:"4"`
	NotifyMaxTries   uint   `env:"NOTIFY_MAX_TRIES" envDefault:"3"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	// The hosted auth API lives behind the same endpoint for every driver.
	if c.StoreURL == "" || c.StoreKey == "" {
		errs = append(errs, errors.New("STORE_URL and STORE_KEY are required"))
	}
	switch c.StoreDriver {
	case DriverREST:
	case DriverMySQL, DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for the %s driver", c.StoreDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.NotifyFormat != "json" && c.NotifyFormat != "discord" {
		errs = append(errs, fmt.Errorf("unknown NOTIFY_FORMAT %q", c.NotifyFormat))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
