// Package api assembles the JSON API module over the operation dispatcher.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/pkg/middleware"
	"github.com/JaimeStill/docqa/pkg/module"
	"github.com/JaimeStill/docqa/pkg/openapi"
)

// NewModule creates the API module with the operation handlers, the
// generated OpenAPI document at /openapi.json, and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	spec := cfg.API.OpenAPI.NewSpec(cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, domain, runtime)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	return m, nil
}
