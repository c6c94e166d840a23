package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
	"github.com/jupiterclapton/tweetsuite/pkg/postgres"
	"github.com/jupiterclapton/tweetsuite/pkg/server"
	"github.com/jupiterclapton/tweetsuite/pkg/telemetry"
	"github.com/jupiterclapton/tweetsuite/pkg/usersclient"

	"github.com/jupiterclapton/tweetsuite/services/tweet-service/config"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/primary/events"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	telemetry.InitLogger(cfg.Env)
	slog.Info("🚀 Starting Tweet Service", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing
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

	// 4. Users-service (+ cache Redis)
	var users ports.UserDirectory = usersclient.New(cfg.UsersServiceURL, cfg.UsersTimeout)
	var userCache *cache.CachedUserDirectory
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Warn("Redis tracing disabled", "error", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("✅ Connected to Redis")

		userCache = cache.NewCachedUserDirectory(rdb, users, cfg.UserCacheTTL)
		users = userCache
	}

	// 5. NATS : publication des events tweets.* et consommation de users.status_changed
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

		if userCache != nil {
			if _, err := events.NewEventHandler(userCache).Subscribe(nc); err != nil {
				slog.Error("Failed to subscribe", "error", err)
				os.Exit(1)
			}
			slog.Info("🎧 Listening for user status changes", "subject", events.SubjectUserStatusChanged)
		}
		slog.Info("✅ NATS JetStream connected")
	}

	// 6. Wiring
	tweetRepo := repository.NewTweetRepo(dbPool)
	broker := eventbroker.NewTweetEvents(publisher)
	clk := clock.NewRealClock()

	tweetService := services.NewTweetService(tweetRepo, users, broker, clk)
	likeService := services.NewLikeService(tweetRepo, repository.NewLikeRepo(dbPool), users, broker, clk)
	retweetService := services.NewRetweetService(tweetRepo, repository.NewRetweetRepo(dbPool), users, broker, clk)

	mux := http.NewServeMux()
	rest.NewHandler(tweetService, likeService, retweetService).RegisterTo(mux)

	// 7. Serveur HTTP + Health + Graceful Shutdown
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
