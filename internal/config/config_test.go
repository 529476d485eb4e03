package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLANBOARD_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "planboard.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "sqlite", cfg.Session.Backend)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, 5*time.Second, cfg.Ordering.TxTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planboard.yaml")
	yaml := `
server:
  port: 9000
db:
  path: /tmp/board.db
auth:
  enabled: false
  session_ttl: 2h
  default_actor: u1
session:
  backend: redis
ordering:
  tx_timeout: 750ms
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PLANBOARD_CONFIG_PATH", path)
	t.Setenv("PLANBOARD_SERVER_PORT", "9100")
	t.Setenv("PLANBOARD_REDIS_URL", "redis://cache:6379/2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/tmp/board.db", cfg.DB.Path)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, "u1", cfg.Auth.DefaultActor)
	require.Equal(t, "redis", cfg.Session.Backend)
	require.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	require.Equal(t, 750*time.Millisecond, cfg.Ordering.TxTimeout)
	// Unset sections keep their defaults.
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PLANBOARD_SERVER_PORT", "eighty"},
		{"PLANBOARD_AUTH_ENABLED", "sometimes"},
		{"PLANBOARD_AUTH_SESSION_TTL", "forever"},
		{"PLANBOARD_ORDERING_TX_TIMEOUT", "5"},
		{"PLANBOARD_TRANSPORT_MODE", "grpc"},
		{"PLANBOARD_SESSION_BACKEND", "memcached"},
		{"PLANBOARD_ORDERING_TX_TIMEOUT", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("PLANBOARD_CONFIG_PATH", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PLANBOARD_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
