// Package openapi builds the OpenAPI 3.1 document served beside the JSON API.
package openapi

import (
	"cmp"
	"os"
	"strings"
)

const (
	defaultTitle       = "docqa console API"
	defaultDescription = "Dispatch document questions, summaries, extractions, and paper searches to the document-intelligence service and poll their status."
)

// Config names the API in the generated document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Finalize fills blank fields with defaults, then applies <prefix>TITLE and
// <prefix>DESCRIPTION from the environment when they are set. An empty
// prefix leaves the environment unread.
func (c *Config) Finalize(prefix string) error {
	c.Title = cmp.Or(strings.TrimSpace(c.Title), defaultTitle)
	c.Description = cmp.Or(strings.TrimSpace(c.Description), defaultDescription)

	if prefix == "" {
		return nil
	}
	c.Title = cmp.Or(strings.TrimSpace(os.Getenv(prefix+"TITLE")), c.Title)
	c.Description = cmp.Or(strings.TrimSpace(os.Getenv(prefix+"DESCRIPTION")), c.Description)
	return nil
}

// Merge copies the set fields of overlay onto c.
func (c *Config) Merge(overlay *Config) {
	c.Title = cmp.Or(overlay.Title, c.Title)
	c.Description = cmp.Or(overlay.Description, c.Description)
}

// NewSpec starts a document titled and described by c at the given API
// version.
func (c *Config) NewSpec(version string) *Spec {
	s := NewSpec(c.Title, version)
	s.SetDescription(c.Description)
	return s
}
