package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adminctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `users_service_url = "http://users:8081"
tweets_service_url = "http://tweets:8082"
gateway_timeout = "2s"
seed = 7
`)

	fc, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://users:8081", fc.UsersServiceURL)
	assert.Equal(t, 2*time.Second, fc.GatewayTimeout)

	cfg, err := config.Load()
	require.NoError(t, err)
	fc.Apply(cfg)
	assert.Equal(t, "http://tweets:8082", cfg.TweetsServiceURL)
	// Absent du fichier : valeur par défaut conservée
	assert.Equal(t, "http://localhost:8083", cfg.FollowsServiceURL)
	assert.Equal(t, uint64(7), cfg.ScriptSeed)
	assert.Equal(t, 2*time.Second, cfg.GatewayTimeout)
}

func TestLoadFileErrors(t *testing.T) {
	fc, err := config.LoadFile("path/nothing.toml")
	assert.Nil(t, fc)
	assert.Error(t, err)

	_, err = config.LoadFile(writeFile(t, `user_service_url = "typo"`))
	assert.ErrorContains(t, err, "unknown keys")
}
