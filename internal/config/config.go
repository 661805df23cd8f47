// Package config loads forecastdesk settings from an optional YAML file and
// FORECASTDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/db"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/logger"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, with "." in keys
// replaced by "_" (FORECASTDESK_BACKEND_TOKEN).
const EnvPrefix = "FORECASTDESK"

type Config struct {
	Log         logger.Config     `mapstructure:"log"`
	Backend     BackendConfig     `mapstructure:"backend"`
	Defaults    domain.Defaults   `mapstructure:"defaults"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

// BackendConfig configures the sandbox booking service.
type BackendConfig struct {
	DBPath       string `mapstructure:"db_path"`
	CustomerCode string `mapstructure:"customer_code"`
	Token        string `mapstructure:"token"`
	DeferWaybill bool   `mapstructure:"defer_waybill"`
}

type IdempotencyConfig struct {
	// MaxEntries bounds each session's cache; 0 means unbounded.
	MaxEntries int `mapstructure:"max_entries"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// MaxSessions caps open sessions; 0 means no cap.
	MaxSessions int `mapstructure:"max_sessions"`
	// SessionIdleTimeout drops sessions unused for this long; 0 keeps them.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: logger.DefaultConfig(),
		Backend: BackendConfig{
			DBPath:       db.MemoryPath,
			CustomerCode: "KJHB",
			Token:        "mock-token",
		},
		Defaults: domain.DefaultOrderDefaults(),
		HTTP: HTTPConfig{
			Addr:               "127.0.0.1:8080",
			MaxSessions:        1024,
			SessionIdleTimeout: 30 * time.Minute,
		},
	}
}

// Load reads configuration with priority env > file > defaults. An empty
// path searches for forecastdesk.yaml in the working directory and tolerates
// its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("forecastdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)

	v.SetDefault("backend.db_path", d.Backend.DBPath)
	v.SetDefault("backend.customer_code", d.Backend.CustomerCode)
	v.SetDefault("backend.token", d.Backend.Token)
	v.SetDefault("backend.defer_waybill", d.Backend.DeferWaybill)

	v.SetDefault("defaults.channel_id", d.Defaults.ChannelID)
	v.SetDefault("defaults.forecast_weight", d.Defaults.ForecastWeight)
	v.SetDefault("defaults.number", d.Defaults.Number)
	v.SetDefault("defaults.package_type_code", d.Defaults.PackageTypeCode)
	v.SetDefault("defaults.goods_type_code", d.Defaults.GoodsTypeCode)
	v.SetDefault("defaults.declare_currency", d.Defaults.DeclareCurrency)

	v.SetDefault("idempotency.max_entries", d.Idempotency.MaxEntries)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.max_sessions", d.HTTP.MaxSessions)
	v.SetDefault("http.session_idle_timeout", d.HTTP.SessionIdleTimeout)
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Backend.CustomerCode == "" || c.Backend.Token == "" {
		errs = append(errs, errors.New("backend.customer_code and backend.token are required"))
	}
	if c.Defaults.ChannelID == "" {
		errs = append(errs, errors.New("defaults.channel_id is required"))
	}
	if c.Defaults.ForecastWeight <= 0 {
		errs = append(errs, fmt.Errorf("defaults.forecast_weight must be positive, got %v", c.Defaults.ForecastWeight))
	}
	if c.Defaults.Number <= 0 {
		errs = append(errs, fmt.Errorf("defaults.number must be positive, got %d", c.Defaults.Number))
	}
	if c.Idempotency.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("idempotency.max_entries must not be negative, got %d", c.Idempotency.MaxEntries))
	}
	if c.HTTP.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("http.max_sessions must not be negative, got %d", c.HTTP.MaxSessions))
	}
	if c.HTTP.SessionIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("http.session_idle_timeout must not be negative, got %s", c.HTTP.SessionIdleTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
