package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from a YAML string like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// DirectoryConfig points at the remote service directory.
type DirectoryConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"` // zero means no client timeout
}

// ServerConfig holds dashboard HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DisplayConfig controls how timestamps are rendered.
type DisplayConfig struct {
	TimeFormat string `yaml:"time_format"`
	Timezone   string `yaml:"timezone"`
}

// Location resolves Timezone. It is valid after Load.
func (d DisplayConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StorageConfig holds journal settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects the logger preset.
type LogConfig struct {
	Env string `yaml:"env"`
}

// WebhookConfig holds alert webhook settings.
type WebhookConfig struct {
	URL      string   `yaml:"url"`
	Cooldown Duration `yaml:"cooldown"`
}

// AlertsConfig holds all alert configuration.
type AlertsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WatchConfig holds the periodic re-list settings.
type WatchConfig struct {
	Interval Duration `yaml:"interval"`
}

// Config is the root application configuration.
type Config struct {
	Directory DirectoryConfig `yaml:"directory"`
	Server    ServerConfig    `yaml:"server"`
	Display   DisplayConfig   `yaml:"display"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Watch     WatchConfig     `yaml:"watch"`
}

// Option adjusts a Config after defaults are applied and before validation.
type Option func(*Config)

// WithBaseURL overrides directory.base_url when u is non-empty.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		if u != "" {
			c.Directory.BaseURL = u
		}
	}
}

// Load reads, parses, and validates the config file at path.
func Load(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, opts...)
}

// Parse parses and validates YAML config data, applying defaults.
func Parse(data []byte, opts ...Option) (*Config, error) {
	// Unmarshal durations as strings first so a bad value names its field.
	type rawConfig struct {
		Directory struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"directory"`
		Server  ServerConfig  `yaml:"server"`
		Display DisplayConfig `yaml:"display"`
		Storage StorageConfig `yaml:"storage"`
		Log     LogConfig     `yaml:"log"`
		Alerts  struct {
			Webhook struct {
				URL      string `yaml:"url"`
				Cooldown string `yaml:"cooldown"`
			} `yaml:"webhook"`
		} `yaml:"alerts"`
		Watch struct {
			Interval string `yaml:"interval"`
		} `yaml:"watch"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults.
	if raw.Server.Address == "" {
		raw.Server.Address = ":3000"
	}
	if raw.Display.TimeFormat == "" {
		raw.Display.TimeFormat = "2006-01-02 15:04:05"
	}
	if raw.Display.Timezone == "" {
		raw.Display.Timezone = "Local"
	}
	if raw.Storage.Path == "" {
		raw.Storage.Path = "svcboard.db"
	}
	if raw.Log.Env == "" {
		raw.Log.Env = "development"
	}

	cfg := &Config{
		Directory: DirectoryConfig{BaseURL: raw.Directory.BaseURL},
		Server:    raw.Server,
		Display:   raw.Display,
		Storage:   raw.Storage,
		Log:       raw.Log,
		Alerts: AlertsConfig{
			Webhook: WebhookConfig{URL: raw.Alerts.Webhook.URL},
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := ValidateBaseURL(cfg.Directory.BaseURL); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
		return nil, fmt.Errorf("display: invalid timezone %q: %w", cfg.Display.Timezone, err)
	}

	var err error
	if cfg.Directory.Timeout, err = parseDuration("directory.timeout", raw.Directory.Timeout, 0); err != nil {
		return nil, err
	}
	if cfg.Alerts.Webhook.Cooldown, err = parseDuration("alerts.webhook.cooldown", raw.Alerts.Webhook.Cooldown, 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Watch.Interval, err = parseDuration("watch.interval", raw.Watch.Interval, 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Watch.Interval.Duration <= 0 {
		return nil, fmt.Errorf("watch.interval must be positive")
	}

	return cfg, nil
}

// ValidateBaseURL checks that s is an absolute http(s) URL.
func ValidateBaseURL(s string) error {
	if s == "" {
		return fmt.Errorf("directory.base_url is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("directory.base_url %q: %w", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("directory.base_url %q must be an absolute http or https URL", s)
	}
	return nil
}

func parseDuration(field, s string, def time.Duration) (Duration, error) {
	if s == "" {
		return Duration{def}, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("%s: invalid duration %q: %w", field, s, err)
	}
	if d < 0 {
		return Duration{}, fmt.Errorf("%s: duration %q must not be negative", field, s)
	}
	return Duration{d}, nil
}
