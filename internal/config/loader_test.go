package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9999"
logging:
  level: debug
debate:
  max_rounds: 3
  consensus_spread: 0.05
audit:
  sink: nats
  nats_url: nats://localhost:4222
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Debate.MaxRounds)
	assert.InDelta(t, 0.05, cfg.Debate.ConsensusSpread, 1e-9)
	assert.Equal(t, "nats", cfg.Audit.Sink)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Muhasabah, cfg.Muhasabah)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9999"
`)
	t.Setenv("ISNAD_SERVER_ADDR", ":7777")
	t.Setenv("ISNAD_DEBATE_MAX_ROUNDS", "7")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Debate.MaxRounds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidResult(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: loud
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "server.addr", envTransform("ISNAD_SERVER_ADDR"))
	assert.Equal(t, "debate.max_rounds", envTransform("ISNAD_DEBATE_MAX_ROUNDS"))
	assert.Equal(t, "audit.nats_url", envTransform("ISNAD_AUDIT_NATS_URL"))
	assert.Equal(t, "logging.level", envTransform("ISNAD_LOGGING_LEVEL"))
}
