package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/pkg/server"
	"github.com/jupiterclapton/tweetsuite/pkg/telemetry"

	"github.com/jupiterclapton/tweetsuite/services/users-service/config"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/adapters/secondary/security"
	"github.com/jupiterclapton/tweetsuite/services/users-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	telemetry.InitLogger(cfg.Env)
	slog.Info("🚀 Starting Users Service", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing (OpenTelemetry)
	shutdownTracer := telemetry.SetupTracing(ctx, cfg.OtelEnabled, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
	})
	defer shutdownTracer()

	// 3. Infrastructure : Postgres
	dbPool, err := postgres.Connect(ctx, cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	slog.Info("✅ Database connected")

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, dbPool, repository.Migrations, "migrations"); err != nil {
			slog.Error("Migration failed", "error", err)
			os.Exit(1)
		}
	}

	// 4. Infrastructure : Event Broker (NATS JetStream)
	var publisher eventbus.Publisher = eventbus.NoopPublisher{}
	if cfg.NatsUrl != "" {
		nc, err := eventbus.Connect(cfg.NatsUrl, cfg.ServiceName)
		if err != nil {
			slog.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		natsPub, err := eventbus.NewNatsPublisher(ctx, nc, eventbroker.StreamName, eventbroker.SubjectPattern)
		if err != nil {
			slog.Error("Failed to init JetStream", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		publisher = natsPub
		slog.Info("✅ NATS JetStream connected")
	}

	// 5. Wiring : Adapters -> Service
	repo := repository.NewPostgresRepo(dbPool)
	hasher := security.NewArgon2Hasher(nil)
	userService := services.NewUserService(repo, hasher, eventbroker.NewUserEvents(publisher), clock.NewRealClock())

	mux := http.NewServeMux()
	rest.NewHandler(userService).RegisterTo(mux)

	// 6. Serveur HTTP + Health + Graceful Shutdown
	opts := server.Options{
		Name:        cfg.ServiceName,
		Port:        cfg.HTTPPort,
		HealthPort:  cfg.HealthPort,
		CORSOrigins: cfg.CORSOrigins,
	}
	hc := healthcheck.New(cfg.ServiceName)
	handler := server.Handler(opts, mux, metrics.New(cfg.ServiceName), hc)

	if err := server.Run(opts, handler, hc); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
