package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvAppBasePath        = "DOCQA_APP_BASE_PATH"
	EnvAppRefreshInterval = "DOCQA_APP_REFRESH_INTERVAL"
)

// AppConfig holds settings for the HTML console.
type AppConfig struct {
	BasePath string `toml:"base_path"`
	// RefreshInterval is how often the page reloads while an operation is busy.
	RefreshInterval string `toml:"refresh_interval"`
}

// RefreshSeconds returns RefreshInterval in whole seconds, at least one.
func (c *AppConfig) RefreshSeconds() int {
	d, _ := time.ParseDuration(c.RefreshInterval)
	return max(int(d/time.Second), 1)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AppConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AppConfig) Merge(overlay *AppConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.RefreshInterval != "" {
		c.RefreshInterval = overlay.RefreshInterval
	}
}

func (c *AppConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/app"
	}
	if c.RefreshInterval == "" {
		c.RefreshInterval = "2s"
	}
}

func (c *AppConfig) loadEnv() {
	if v := os.Getenv(EnvAppBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAppRefreshInterval); v != "" {
		c.RefreshInterval = v
	}
}

func (c *AppConfig) validate() error {
	if err := validateBasePath(c.BasePath); err != nil {
		return err
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return fmt.Errorf("invalid refresh_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("refresh_interval must be positive: %s", c.RefreshInterval)
	}
	return nil
}
