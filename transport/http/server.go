package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"
)

// Serve runs handler on address until ctx is done, then shuts down gracefully
func Serve(ctx context.Context, address string, shutdownTimeout time.Duration, handler http.Handler) error {
	server := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	go func() {
		slogctx.Info(ctx, "Serving the dashboard", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve the dashboard", "error", err)
		}

		slogctx.Info(ctx, "Stopped the dashboard server")
	}()

	<-ctx.Done()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
