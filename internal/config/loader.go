package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultAPIURL         = "http://localhost:5000"
	DefaultUsername       = "USER"
	DefaultTimeout        = 10 * time.Second
	DefaultDeviceInterval = 3000 * time.Millisecond
	DefaultLogInterval    = 1000 * time.Millisecond
	DefaultListen         = ":8090"
	DefaultConsoleSize    = 1000
)

// LoadConfig loads configuration from path. A missing file yields the
// defaults; environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := loadYAML(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadYAML loads a YAML file into a struct
func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NRFDASH_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("NRFDASH_LISTEN"); v != "" {
		cfg.Web.Listen = v
	}
	cfg.API.Password = os.Getenv("NRFDASH_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.API.URL == "" {
		cfg.API.URL = DefaultAPIURL
	}
	if cfg.API.Username == "" {
		cfg.API.Username = DefaultUsername
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultTimeout
	}
	if cfg.Polling.Devices == 0 {
		cfg.Polling.Devices = DefaultDeviceInterval
	}
	if cfg.Polling.Logs == 0 {
		cfg.Polling.Logs = DefaultLogInterval
	}
	if cfg.Web.Listen == "" {
		cfg.Web.Listen = DefaultListen
	}
	if cfg.Web.ConsoleSize == 0 {
		cfg.Web.ConsoleSize = DefaultConsoleSize
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.URL)
	if err != nil {
		return fmt.Errorf("api.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.url must be http or https, got %q", cfg.API.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.url %q has no host", cfg.API.URL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if cfg.Polling.Devices < 0 || cfg.Polling.Logs < 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	if cfg.Web.ConsoleSize < 0 {
		return fmt.Errorf("web.console_size must not be negative")
	}
	return nil
}
