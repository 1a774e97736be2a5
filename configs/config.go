package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Session SessionConfig
	Export  ExportConfig
	Market  MarketConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// SessionConfig holds form session configuration
type SessionConfig struct {
	Secret    string
	TTL       time.Duration
	SweepCron string
}

// ExportConfig holds image export configuration
type ExportConfig struct {
	Timeout    time.Duration
	PixelRatio float64
	Background string
}

// MarketConfig holds the mark price lookup configuration
type MarketConfig struct {
	BaseURL string
	Timeout time.Duration
}

const defaultSessionSecret = "default-secret-change-in-production"

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_SWEEP_CRON", "*/5 * * * *")
	v.SetDefault("EXPORT_TIMEOUT", "10s")
	v.SetDefault("EXPORT_PIXEL_RATIO", 2.0)
	v.SetDefault("EXPORT_BACKGROUND", "#000")
	v.SetDefault("BINANCE_BASE_URL", "https://fapi.binance.com")
	v.SetDefault("MARK_PRICE_TIMEOUT", "5s")
}

// Load reads .env (if present) and the environment, then validates the result
func Load() (*Config, error) {
	// .env is optional; plain environment variables work too
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("GO_ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Session: SessionConfig{
			Secret:    v.GetString("SESSION_SECRET"),
			TTL:       v.GetDuration("SESSION_TTL"),
			SweepCron: v.GetString("SESSION_SWEEP_CRON"),
		},
		Export: ExportConfig{
			Timeout:    v.GetDuration("EXPORT_TIMEOUT"),
			PixelRatio: v.GetFloat64("EXPORT_PIXEL_RATIO"),
			Background: v.GetString("EXPORT_BACKGROUND"),
		},
		Market: MarketConfig{
			BaseURL: v.GetString("BINANCE_BASE_URL"),
			Timeout: v.GetDuration("MARK_PRICE_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every configuration problem into one error
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port == "" {
		errs = append(errs, "PORT must be set")
	}
	if c.Session.Secret == "" {
		errs = append(errs, "SESSION_SECRET must be set")
	} else if c.IsProduction() && c.Session.Secret == defaultSessionSecret {
		errs = append(errs, "SESSION_SECRET must be changed in production")
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.Session.SweepCron); err != nil {
		errs = append(errs, fmt.Sprintf("invalid SESSION_SWEEP_CRON: %v", err))
	}
	if c.Export.Timeout <= 0 {
		errs = append(errs, "EXPORT_TIMEOUT must be positive")
	}
	if c.Export.PixelRatio <= 0 || c.Export.PixelRatio > 4 {
		errs = append(errs, "EXPORT_PIXEL_RATIO must be in (0, 4]")
	}
	if !strings.HasPrefix(c.Export.Background, "#") {
		errs = append(errs, "EXPORT_BACKGROUND must be a hex colour")
	}
	if c.Market.Timeout <= 0 {
		errs = append(errs, "MARK_PRICE_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction reports whether the app runs with GO_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
