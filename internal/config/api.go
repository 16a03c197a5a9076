package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/docqa/pkg/formatting"
	"github.com/JaimeStill/docqa/pkg/middleware"
	"github.com/JaimeStill/docqa/pkg/module"
	"github.com/JaimeStill/docqa/pkg/openapi"
)

const (
	EnvAPIBasePath      = "DOCQA_API_BASE_PATH"
	EnvAPIMaxUploadSize = "DOCQA_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DOCQA_CORS_ENABLED",
	Origins:          "DOCQA_CORS_ORIGINS",
	AllowedMethods:   "DOCQA_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DOCQA_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DOCQA_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DOCQA_CORS_MAX_AGE",
}

// EnvOpenAPIPrefix prefixes the TITLE and DESCRIPTION overrides of the
// generated API document.
const EnvOpenAPIPrefix = "DOCQA_OPENAPI_"

// APIConfig holds JSON API routing, upload limit, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize as a byte count. Finalize
// guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(EnvOpenAPIPrefix); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if err := validateBasePath(c.BasePath); err != nil {
		return err
	}
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive: %s", c.MaxUploadSize)
	}
	return nil
}

func validateBasePath(p string) error {
	if err := module.ValidatePrefix(p); err != nil {
		return fmt.Errorf("invalid base_path: %w", err)
	}
	return nil
}
