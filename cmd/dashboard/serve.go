package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/adapters/backend"
	"github.com/bloodlink/dashboard/adapters/events"
	"github.com/bloodlink/dashboard/adapters/tokenizer"
	"github.com/bloodlink/dashboard/internal/config"
	"github.com/bloodlink/dashboard/service"
	transport "github.com/bloodlink/dashboard/transport/http"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	rt, err := wire(ctx, cfg)
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to wire the session store")
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slogctx.Warn(ctx, "Failed to release resources", "error", err)
		}
	}()

	if rt.subscriber != nil {
		go func() {
			if err := events.LogSessionEvents(ctx, rt.subscriber, cfg.Events.Topic); err != nil {
				slogctx.Error(ctx, "Session event log stopped", "error", err)
			}
		}()
	}

	session := rt.sessions.Restore(ctx)
	rt.browser.Restore(ctx)
	slogctx.Info(ctx, "Session restored", "authenticated", session.Authenticated(), "role", session.Role)

	client := backend.NewClient(
		cfg.Backend.BaseURL,
		backend.WithExchangePath(cfg.Backend.ExchangePath),
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
	)

	handlers, err := transport.NewHandlers(transport.Dependencies{
		Auth:           service.NewAuthService(client, rt.sessions, service.WithSingleFlight(cfg.Backend.SingleFlight)),
		Sessions:       rt.sessions,
		Browser:        rt.browser,
		Cookie: transport.CookieSettings{
			Name:   cfg.HTTP.Cookie.Name,
			Secure: cfg.HTTP.Cookie.Secure,
			MaxAge: cfg.HTTP.Cookie.MaxAge,
		},
		Dispatcher:     service.NewDispatcher(),
		API:            client,
		Inspector:      tokenizer.NewJWTInspector(),
		GoogleClientID: cfg.Identity.GoogleClientID,
	})
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to prepare the handlers")
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.SetupRouter(handlers, service.NewGuard(rt.sessions))

	return transport.Serve(ctx, cfg.HTTP.Address, cfg.HTTP.ShutdownTimeout, router)
}
