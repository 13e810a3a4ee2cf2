package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"LC_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"LC_DB_MAX_CONNS" default:"8"`

	RedisURL string `envconfig:"REDIS_URL" default:""`

	TranslationEndpoint string        `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationModel    string        `envconfig:"TRANSLATION_MODEL" default:""`
	TranslationProvider string        `envconfig:"TRANSLATION_PROVIDER" default:"http"`
	BatchSize           int           `envconfig:"TRANSLATION_BATCH_SIZE" default:"10"`
	BatchDelay          time.Duration `envconfig:"TRANSLATION_BATCH_DELAY" default:"100ms"`
	MaxRetries          int           `envconfig:"TRANSLATION_MAX_RETRIES" default:"3"`
	RetryBaseDelay      time.Duration `envconfig:"TRANSLATION_RETRY_DELAY" default:"500ms"`

	HTTPHost string `envconfig:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8870"`

	AdminUser     string `envconfig:"ADMIN_USER" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("LC_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("LC_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("LC_DB_MIN_CONNS (%d) cannot exceed LC_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("TRANSLATION_BATCH_SIZE must be >= 1")
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("TRANSLATION_BATCH_DELAY must be >= 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("TRANSLATION_MAX_RETRIES must be >= 0")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be a valid port")
	}
	if strings.TrimSpace(c.AdminUser) == "" {
		return fmt.Errorf("ADMIN_USER is required")
	}
	return nil
}
