// Package server assemble la chaîne HTTP commune et gère l'arrêt gracieux.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
)

type Options struct {
	Name        string
	Port        string
	HealthPort  string
	CORSOrigins []string
	// CORSHeaders s'ajoute aux en-têtes autorisés par défaut.
	CORSHeaders []string
}

// Handler enregistre /metrics et /healthz sur mux puis l'enveloppe :
// OTEL HTTP (racine) -> CORS -> Recover -> Metrics -> Logging -> mux.
func Handler(opts Options, mux *http.ServeMux, m *metrics.HTTPMetrics, hc *healthcheck.Server) http.Handler {
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /healthz", hc.HTTPHandler())

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: append([]string{"Content-Type", "traceparent", "tracestate", "baggage"}, opts.CORSHeaders...),
	})

	h := httpx.Chain(mux,
		c.Handler,
		httpx.Recover,
		m.Middleware,
		httpx.Logging(slog.Default()),
	)

	return otelhttp.NewHandler(h, opts.Name, otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}

// Run démarre le serveur HTTP et le health gRPC, puis bloque jusqu'à SIGINT/SIGTERM.
func Run(opts Options, handler http.Handler, hc *healthcheck.Server) error {
	if opts.HealthPort != "" {
		if err := hc.Serve(":" + opts.HealthPort); err != nil {
			return fmt.Errorf("health listen: %w", err)
		}
	} else {
		hc.SetServing(true)
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("📡 HTTP server listening", "service", opts.Name, "port", opts.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		hc.Stop()
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		slog.Info("🛑 Shutting down server...", "signal", sig.String())
	}

	// On passe NOT_SERVING avant de drainer les requêtes en cours
	hc.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	hc.Stop()

	slog.Info("👋 Server exited", "service", opts.Name)
	return nil
}
