package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collisions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
max_snapshot_bytes: 4096
ssh:
  port: "2323"
nats:
  subject: game.collisions
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 4096, s.MaxSnapshotBytes)
	assert.Equal(t, "2323", s.SSH.Port)
	assert.Equal(t, "::", s.SSH.Host, "unset keys keep their defaults")
	assert.Equal(t, "game.collisions", s.NATS.Subject)
	assert.Equal(t, DefaultNATSQueue, s.NATS.Queue)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "web:\n  port: \"9000\"\n")
	t.Setenv("WEB_PORT", "9100")
	t.Setenv("MAX_SNAPSHOT_BYTES", "512")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", s.Web.Port)
	assert.Equal(t, 512, s.MaxSnapshotBytes)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "ssh: [not, a, map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "max_snapshot_bytes: 0\n"))
	assert.Error(t, err)

	t.Setenv("MAX_SNAPSHOT_BYTES", "lots")
	_, err = Load("")
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("COLLISIONS_TEST_VALUE", "x")
	assert.Equal(t, "x", GetEnv("COLLISIONS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("COLLISIONS_TEST_UNSET", "fallback"))

	n, err := GetEnvInt("COLLISIONS_TEST_UNSET", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
