// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; the password goes to the OS
// keychain. Environment variables overlay the file and flags overlay both.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"odoogate/cli/internal/xdg"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultLogLevel = "warn"
	DefaultOutput   = "table"
	DefaultPageSize = 50
	DefaultProfile  = "default"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	URL            string `json:"url"`
	Database       string `json:"database"`
	Username       string `json:"username"`
	LogLevel       string `json:"log_level"`
	Output         string `json:"output"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	PageSize       int    `json:"page_size"`
	Profile        string `json:"profile,omitempty"`
}

// Env is the environment overlay. Empty values leave the file setting in place.
type Env struct {
	URL       string        `env:"ODOO_URL"`
	Database  string        `env:"ODOO_DB"`
	Username  string        `env:"ODOO_USER"`
	Password  string        `env:"ODOO_PASSWORD"`
	LogLevel  string        `env:"ODOOGATE_LOG_LEVEL"`
	LogFormat string        `env:"ODOOGATE_LOG_FORMAT" envDefault:"text"`
	Output    string        `env:"ODOOGATE_OUTPUT"`
	Timeout   time.Duration `env:"ODOOGATE_TIMEOUT"`
	ExportDSN string        `env:"ODOOGATE_EXPORT_DSN"`
	Profile   string        `env:"ODOOGATE_PROFILE"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Output:   DefaultOutput,
		PageSize: DefaultPageSize,
		Profile:  DefaultProfile,
	}
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	c.fillDefaults()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// ParseEnv reads the environment overlay.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// Apply overlays non-empty environment values onto c.
func (c Config) Apply(e Env) Config {
	if e.URL != "" {
		c.URL = e.URL
	}
	if e.Database != "" {
		c.Database = e.Database
	}
	if e.Username != "" {
		c.Username = e.Username
	}
	if e.LogLevel != "" {
		c.LogLevel = e.LogLevel
	}
	if e.Output != "" {
		c.Output = e.Output
	}
	if e.Timeout > 0 {
		c.TimeoutSeconds = int(e.Timeout / time.Second)
	}
	if e.Profile != "" {
		c.Profile = e.Profile
	}
	c.fillDefaults()
	return c
}

// Timeout returns the per-request timeout; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output %q (want table, json or yaml)", c.Output)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page size %d", c.PageSize)
	}
	return nil
}

func (c *Config) fillDefaults() {
	d := Defaults()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.Profile == "" {
		c.Profile = d.Profile
	}
}
