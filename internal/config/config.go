package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Burnrate"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"burnrate"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	}

	Analytics struct {
		CacheSize   int           `envconfig:"ANALYTICS_CACHE_SIZE" default:"128"`
		CacheTTL    time.Duration `envconfig:"ANALYTICS_CACHE_TTL" default:"5m"`
		TopN        int           `envconfig:"ANALYTICS_TOP_N" default:"5"`
		TrendMonths int           `envconfig:"ANALYTICS_TREND_MONTHS" default:"6"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Analytics.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_CACHE_SIZE must be positive, got %d", c.Analytics.CacheSize))
	}

	if c.Analytics.TopN <= 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_TOP_N must be positive, got %d", c.Analytics.TopN))
	}

	if c.Analytics.TrendMonths <= 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_TREND_MONTHS must be positive, got %d", c.Analytics.TrendMonths))
	}

	if c.Analytics.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("ANALYTICS_CACHE_TTL must not be negative, got %s", c.Analytics.CacheTTL))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
