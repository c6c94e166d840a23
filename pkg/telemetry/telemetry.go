// Package telemetry initialise le logger slog et le tracer OpenTelemetry.
package telemetry

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InitLogger installe le logger par défaut (slog JSON pour la prod, Text pour le dev).
func InitLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "local" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

type TracerConfig struct {
	ServiceName string
	Version     string
	Env         string
	Endpoint    string // collecteur OTLP gRPC (Jaeger/Tempo)
}

// InitTracer branche l'exporteur OTLP et les propagateurs W3C.
func InitTracer(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(), // En prod, gérez le TLS
	)
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

// SetupTracing démarre le tracer si activé et retourne la fonction d'arrêt.
// Un échec d'initialisation est logué sans bloquer le démarrage du service.
func SetupTracing(ctx context.Context, enabled bool, cfg TracerConfig) func() {
	if !enabled {
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		slog.Debug("tracing disabled")
		return func() {}
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
		return func() {}
	}
	slog.Info("📡 Tracing enabled", "endpoint", cfg.Endpoint)

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down tracer", "error", err)
		}
	}
}
