// Package app serves the HTML console: one page showing the session and a
// panel per operation. Forms post back and redirect, and the page reloads
// itself while any operation is busy.
package app

import (
	"embed"
	"log/slog"

	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/internal/operations"
	"github.com/JaimeStill/docqa/pkg/module"
	"github.com/JaimeStill/docqa/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app"

var (
	consoleView = web.ViewDef{Route: "/{$}", Template: "console.html", Title: "Console"}
	errorView   = web.ViewDef{Template: "error.html", Title: "Request failed"}
	notFound    = web.ViewDef{Template: "error.html", Title: "Not found"}
)

// NewModule creates the console module at cfg.BasePath over the given
// operations system.
func NewModule(cfg *config.AppConfig, sys operations.System, maxUploadSize int64, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		cfg.BasePath,
		[]web.ViewDef{consoleView, errorView},
	)
	if err != nil {
		return nil, err
	}

	h := NewHandler(sys, ts, logger, maxUploadSize, cfg.RefreshSeconds())

	assets, err := web.Assets(staticFS, "static", "/static/")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	router.Register(h.Routes())
	router.Handle("GET /static/", assets)
	router.SetFallback(ts.ErrorHandler(layout, notFound, 404))

	m := module.New(cfg.BasePath, router)
	return m, nil
}
