package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LEMONS_"

// Config is the demo server configuration.
type Config struct {
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port" default:"4000"`
	ShutdownTimeout time.Duration     `yaml:"shutdown_timeout" default:"30s"`
	Headers         map[string]string `yaml:"headers"`
	BodyLimit       int64             `yaml:"body_limit" default:"1048576"`
	Compress        bool              `yaml:"compress"`
	Secure          bool              `yaml:"secure" default:"true"`
	StaticDir       string            `yaml:"static_dir"`
	Pprof           bool              `yaml:"pprof"`
	Log             LogConfig         `yaml:"log"`
	RateLimit       RateLimitConfig   `yaml:"rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"text"`
}

// RateLimitConfig enables per-client rate limiting when Rate > 0.
type RateLimitConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst" default:"10"`
}

func (cfg Config) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown_timeout: %s", cfg.ShutdownTimeout)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Log.Level) {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, cfg.Log.Format) {
		return fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}
	if cfg.BodyLimit <= 0 {
		return fmt.Errorf("invalid body_limit: %d", cfg.BodyLimit)
	}
	if cfg.RateLimit.Rate < 0 || cfg.RateLimit.Burst < 0 {
		return errors.New("invalid rate_limit: rate and burst must not be negative")
	}
	return nil
}

// loadConfig applies defaults, then the YAML file (if any), then LEMONS_*
// environment variables, and validates the result.
func loadConfig(filename string) (*Config, error) {
	var content []byte
	if filename != "" {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrap(err, "could not read configuration")
		}
		content = b
	}
	return parseConfig(content, os.LookupEnv)
}

func parseConfig(content []byte, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "could not apply defaults")
	}

	if len(content) > 0 {
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrap(err, "could not parse configuration")
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, errors.Wrap(err, "could not load environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "HOST"); ok {
		cfg.Host = v
	}
	if v, ok := lookup(envPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sPORT", envPrefix)
		}
		cfg.Port = port
	}
	if v, ok := lookup(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%sSHUTDOWN_TIMEOUT", envPrefix)
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	return nil
}

func newLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	//nolint:errcheck // validated in Config.Validate
	level.UnmarshalText([]byte(cfg.Level))

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
