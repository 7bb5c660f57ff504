// Package server assembles the HTTP router shared by both services and runs
// it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/shopping-list/internal/config"
	"github.com/Lixing-Zhang/shopping-list/internal/handlers"
	"github.com/Lixing-Zhang/shopping-list/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const defaultRequestTimeout = 60 * time.Second

// RouteRegistrar mounts a service's endpoints under /api
type RouteRegistrar interface {
	Routes(r chi.Router)
}

type Options struct {
	Logger         *slog.Logger
	Health         *handlers.HealthHandler
	Docs           *handlers.DocsHandler
	Metrics        *middleware.Metrics
	API            RouteRegistrar
	RequestTimeout time.Duration
}

// NewRouter builds the middleware stack and mounts /health, /metrics,
// /swagger and /api.
func NewRouter(opts Options) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", opts.Health.ServeHTTP)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.Docs != nil {
		r.Route("/swagger", opts.Docs.Routes)
	}

	r.Route("/api", opts.API.Routes)

	return r
}

// Run serves handler on cfg's address until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg config.ServerConfig, handler http.Handler, log *slog.Logger) error {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
