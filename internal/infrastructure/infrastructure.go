// Package infrastructure provides core initialization for application startup.
// It assembles the dependencies every console surface shares: lifecycle,
// logging, the service client, and the session.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/internal/session"
	"github.com/JaimeStill/docqa/pkg/lifecycle"
	"github.com/JaimeStill/docqa/pkg/service"
)

const pingTimeout = 5 * time.Second

// Infrastructure holds the core systems required by all console modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Service   *service.Client
	Session   *session.Session
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client, err := service.New(&cfg.Service, logger)
	if err != nil {
		return nil, fmt.Errorf("service client init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Service:   client,
		Session:   session.New(),
	}, nil
}

// Start registers infrastructure hooks with the lifecycle coordinator. The
// startup check only logs: the console stays usable while the service is
// down, and each operation reports its own transport failure.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(func() {
		ctx, cancel := context.WithTimeout(i.Lifecycle.Context(), pingTimeout)
		defer cancel()

		if err := i.Service.Ping(ctx); err != nil {
			i.Logger.Warn("service not reachable", "base_url", i.Service.BaseURL(), "error", err)
			return
		}
		i.Logger.Info("service reachable", "base_url", i.Service.BaseURL())
	})
	return nil
}
