package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROCBOARD_CONFIG_PATH", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: stdio
namespaces:
  driver: pgx
  dsn: postgres://localhost/procboard
log:
  level: debug
`), 0o644))

	t.Setenv("PROCBOARD_SERVER_PORT", "9191")
	t.Setenv("PROCBOARD_METADATA_DSN", ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "pgx", cfg.Namespaces.Driver)
	require.Equal(t, "postgres://localhost/procboard", cfg.Namespaces.DSN)
	require.Equal(t, "sqlite", cfg.Metadata.Driver)
	require.Equal(t, ":memory:", cfg.Metadata.DSN)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("PROCBOARD_SERVER_PORT", "eighty")
	_, err := Load("")
	require.ErrorContains(t, err, "PROCBOARD_SERVER_PORT")

	t.Setenv("PROCBOARD_SERVER_PORT", "")
	t.Setenv("PROCBOARD_TRANSPORT_MODE", "carrier-pigeon")
	_, err = Load("")
	require.ErrorContains(t, err, "transport mode")

	t.Setenv("PROCBOARD_TRANSPORT_MODE", "")
	t.Setenv("PROCBOARD_NAMESPACES_DRIVER", "mongo")
	_, err = Load("")
	require.ErrorContains(t, err, "namespaces driver")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config file")
}
