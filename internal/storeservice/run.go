// Package storeservice runs the appointment store HTTP service.
package storeservice

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidewell/scheduler/internal/api"
	"github.com/tidewell/scheduler/internal/config"
	"github.com/tidewell/scheduler/internal/factory"
	"github.com/tidewell/scheduler/internal/health"
	"github.com/tidewell/scheduler/internal/logger"
	"github.com/tidewell/scheduler/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Run starts the store service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("appointment-store", "info")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log = logger.New("appointment-store", cfg.LogLevel)

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.GetHTTPAddr())
	if err != nil {
		log.Error().Stack().Err(err).Msg("listen failed")
		return err
	}
	return Serve(ctx, cfg, log, ln)
}

// Serve runs the service on ln until ctx is cancelled or the server fails.
func Serve(ctx context.Context, cfg *config.Config, log zerolog.Logger, ln net.Listener) error {
	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Str("addr", ln.Addr().String()).
		Msg("Appointment store starting")

	st, closer, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		_ = ln.Close()
		log.Error().Stack().Err(err).Msg("Store backend unavailable")
		return err
	}
	defer closeQuietly(closer, log)

	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until the backend reports healthy; fail fast otherwise
	if !health.WaitUntilHealthy(ctx, svcHealth.IsHealthy, cfg.StartupTimeout) {
		_ = ln.Close()
		err := fmt.Errorf("startup aborted: store not healthy within %s", cfg.StartupTimeout)
		log.Error().Err(err).Msg("startup health check failed")
		return err
	}

	router := api.NewRouter(st, api.NewHealthHandler(svcHealth.IsHealthy, svcHealth.Components))
	server := newHTTPServer(ctx, router)
	errCh := serveHTTP(server, ln, log)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Appointments) *health.ServiceChecker {
	storeChecker := store.NewHealthChecker(st, log, cfg.HealthProbeTimeout)
	go storeChecker.Start(ctx, cfg.HealthInterval)

	svcHealth := health.NewServiceChecker(log, storeChecker)
	go svcHealth.Start(ctx, cfg.HealthInterval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, ln net.Listener, log zerolog.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func closeQuietly(c io.Closer, log zerolog.Logger) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("store close failed")
	}
}
