package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/pkg/healthcheck"
	"github.com/jupiterclapton/tweetsuite/pkg/metrics"
	"github.com/jupiterclapton/tweetsuite/pkg/server"
	"github.com/jupiterclapton/tweetsuite/pkg/telemetry"

	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/config"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/adapters/secondary/gateway"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/auth"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	telemetry.InitLogger(cfg.Env)
	slog.Info("🚀 Starting Admin Script Service", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing
	shutdownTracer := telemetry.SetupTracing(ctx, cfg.OtelEnabled, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
	})
	defer shutdownTracer()

	// 3. Gateways HTTP vers les autres services
	users := gateway.NewUsersGateway(cfg.UsersServiceURL, cfg.GatewayTimeout)
	follows := gateway.NewFollowsGateway(cfg.FollowsServiceURL, cfg.GatewayTimeout)
	tweets := gateway.NewTweetsGateway(cfg.TweetsServiceURL, cfg.GatewayTimeout)
	slog.Info("🔗 Gateways configured",
		"users", cfg.UsersServiceURL, "tweets", cfg.TweetsServiceURL, "follows", cfg.FollowsServiceURL)

	// 4. Wiring
	scripts := services.NewScriptService(users, follows, tweets, cfg.ScriptSeed, clock.NewRealClock())
	if cfg.AdminAPIKey == "" {
		slog.Warn("⚠️ ADMIN_API_KEY not set, admin scripts are unprotected")
	}

	mux := http.NewServeMux()
	rest.NewHandler(scripts, auth.Middleware(cfg.AdminAPIKey)).RegisterTo(mux)

	// 5. Serveur HTTP + Health + Graceful Shutdown
	opts := server.Options{
		Name:        cfg.ServiceName,
		Port:        cfg.HTTPPort,
		HealthPort:  cfg.HealthPort,
		CORSOrigins: cfg.CORSOrigins,
		CORSHeaders: []string{"Authorization", auth.HeaderAPIKey},
	}
	hc := healthcheck.New(cfg.ServiceName)
	handler := server.Handler(opts, mux, metrics.New(cfg.ServiceName), hc)

	if err := server.Run(opts, handler, hc); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
