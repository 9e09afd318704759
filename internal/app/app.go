package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/auth"
	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	transporthttp "github.com/vovakirdan/roomchat-server/internal/transport/http"
)

// App wires together the coordinator core and the transport layer.
type App struct {
	server          *stdhttp.Server
	hub             *core.Hub
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	var gate *auth.SecretGate
	if cfg.AdminSecret != "" {
		g, err := auth.NewSecretGate(cfg.AdminSecret)
		if err != nil {
			return nil, fmt.Errorf("init admin gate: %w", err)
		}
		gate = g
	} else {
		logger.Warn().Msg("admin secret not configured; /admin is disabled")
	}

	hub := core.NewHub(gate, logger)
	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		hub:             hub,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}, nil
}

// Run starts the hub and the HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
