package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/services/users-service/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "users-service", cfg.ServiceName)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("CORS_ORIGINS", "http://a.io,http://b.io")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"http://a.io", "http://b.io"}, cfg.CORSOrigins)
}

func TestProdRequiresDB(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}
