// config/config.go
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT" validate:"required"`
	Env            string        `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	Timezone       string        `mapstructure:"APP_TIMEZONE" validate:"required"`
	StoreDriver    string        `mapstructure:"STORE_DRIVER" validate:"oneof=postgres memory"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL" validate:"required_if=StoreDriver postgres"`
	ServiceToken   string        `mapstructure:"GAMIFICATION_SERVICE_TOKEN" validate:"required"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	StreamInterval time.Duration `mapstructure:"STREAM_INTERVAL" validate:"min=1s"`

	SubscriptionSyncURL string        `mapstructure:"SUBSCRIPTION_SYNC_URL" validate:"omitempty,url"`
	PlanSyncInterval    time.Duration `mapstructure:"PLAN_SYNC_INTERVAL" validate:"min=1s"`

	R2AccountID       string `mapstructure:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `mapstructure:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `mapstructure:"R2_BUCKET_NAME"`
}

var defaults = map[string]any{
	"PORT":                       "5300",
	"APP_ENV":                    "development",
	"APP_TIMEZONE":               "UTC",
	"STORE_DRIVER":               "postgres",
	"DATABASE_URL":               "",
	"GAMIFICATION_SERVICE_TOKEN": "",
	"ALLOWED_ORIGINS":            "http://localhost:3000",
	"STREAM_INTERVAL":            "5s",
	"SUBSCRIPTION_SYNC_URL":      "",
	"PLAN_SYNC_INTERVAL":         "30s",
	"CLOUDFLARE_ACCOUNT_ID":      "",
	"R2_ACCESS_KEY_ID":           "",
	"R2_ACCESS_KEY_SECRET":       "",
	"R2_BUCKET_NAME":             "",
}

var validate = validator.New()

// Load reads .env (when present) and the environment into a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Origins returns ALLOWED_ORIGINS trimmed and re-joined for fiber's CORS config.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func (c *Config) BackupsEnabled() bool {
	return c.R2Bucket != "" && c.R2AccountID != ""
}

func (c *Config) PlanSyncEnabled() bool {
	return c.SubscriptionSyncURL != ""
}
