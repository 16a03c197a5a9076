package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/docqa/internal/api"
	"github.com/JaimeStill/docqa/internal/app"
	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/internal/infrastructure"
	"github.com/JaimeStill/docqa/pkg/lifecycle"
	"github.com/JaimeStill/docqa/pkg/middleware"
	"github.com/JaimeStill/docqa/pkg/module"
)

// Modules holds the mounted console surfaces and the domain they share.
type Modules struct {
	API     *module.Module
	App     *module.Module
	runtime *api.Runtime
	domain  *api.Domain
}

// NewModules builds one operations domain and mounts it behind both the
// JSON API and the HTML console, so both observe the same session and status.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(&cfg.App, domain.Operations, runtime.MaxUploadSize, infra.Logger.With("module", "app"))
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:     apiModule,
		App:     appModule,
		runtime: runtime,
		domain:  domain,
	}, nil
}

// Start registers the domain systems with the lifecycle.
func (m *Modules) Start() error {
	return m.domain.Start(m.runtime)
}

// Mount registers every module with the router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.App.BasePath, http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", readiness(infra.Lifecycle))

	return router
}

func readiness(checker lifecycle.ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !checker.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
