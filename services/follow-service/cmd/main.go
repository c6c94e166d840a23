package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/pkg/server"
	"github.com/jupiterclapton/tweetsuite/pkg/telemetry"
	"github.com/jupiterclapton/tweetsuite/pkg/usersclient"

	"github.com/jupiterclapton/tweetsuite/services/follow-service/config"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/ports"
	"github.com/jupiterclapton/tweetsuite/services/follow-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	telemetry.InitLogger(cfg.Env)
	slog.Info("🚀 Starting Follow Service", "env", cfg.Env, "port", cfg.HTTPPort, "store", cfg.Store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing
	shutdownTracer := telemetry.SetupTracing(ctx, cfg.OtelEnabled, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
	})
	defer shutdownTracer()

	// 3. Store (Postgres ou Neo4j, même port)
	var repo ports.FollowRepository
	switch cfg.Store {
	case config.StoreNeo4j:
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			slog.Error("Failed to create neo4j driver", "error", err)
			os.Exit(1)
		}
		defer driver.Close(context.Background())

		verifyCtx, verifyCancel := context.WithTimeout(ctx, 5*time.Second)
		defer verifyCancel()
		if err := driver.VerifyConnectivity(verifyCtx); err != nil {
			slog.Error("Failed to connect to Neo4j", "error", err)
			os.Exit(1)
		}
		slog.Info("✅ Connected to Neo4j")
		repo = repository.NewNeo4jRepo(driver)

	default:
		dbPool, err := postgres.Connect(ctx, cfg.DBUrl)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		slog.Info("✅ Database connected")
		repo = repository.NewPostgresRepo(dbPool)
	}

	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			slog.Error("Schema init failed", "error", err)
			os.Exit(1)
		}
	}

	// 4. NATS
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

	// 5. Wiring
	users := usersclient.New(cfg.UsersServiceURL, cfg.UsersTimeout)
	followService := services.NewFollowService(repo, users, eventbroker.NewFollowEvents(publisher), clock.NewRealClock())

	mux := http.NewServeMux()
	rest.NewHandler(followService).RegisterTo(mux)

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
