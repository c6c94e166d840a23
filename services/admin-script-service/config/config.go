package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env         string
	ServiceName string
	HTTPPort    string
	HealthPort  string

	// Gateways vers les autres services
	UsersServiceURL   string
	TweetsServiceURL  string
	FollowsServiceURL string
	GatewayTimeout    time.Duration

	// ScriptSeed : 0 = tirage aléatoire à chaque exécution
	ScriptSeed uint64
	// AdminAPIKey : vide = routes non protégées
	AdminAPIKey string

	OtelEnabled  bool
	OtelEndpoint string

	CORSOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("APP_ENV", "local"),
		ServiceName:       getEnv("SERVICE_NAME", "admin-script-service"),
		HTTPPort:          getEnv("HTTP_PORT", "8084"),
		HealthPort:        getEnv("HEALTH_PORT", "50054"),
		UsersServiceURL:   getEnv("USERS_SERVICE_URL", "http://localhost:8081"),
		TweetsServiceURL:  getEnv("TWEETS_SERVICE_URL", "http://localhost:8082"),
		FollowsServiceURL: getEnv("FOLLOWS_SERVICE_URL", "http://localhost:8083"),
		GatewayTimeout:    getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		OtelEnabled:       getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		CORSOrigins:       strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
	}

	seed, err := strconv.ParseUint(getEnv("SCRIPT_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SCRIPT_SEED: %w", err)
	}
	cfg.ScriptSeed = seed

	for name, v := range map[string]string{
		"USERS_SERVICE_URL":   cfg.UsersServiceURL,
		"TWEETS_SERVICE_URL":  cfg.TweetsServiceURL,
		"FOLLOWS_SERVICE_URL": cfg.FollowsServiceURL,
	} {
		if v == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}
	if cfg.Env == "prod" && cfg.AdminAPIKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required in production")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
