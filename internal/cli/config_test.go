package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agenticum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 2, cfg.ResumeWorkers)
	assert.Equal(t, 32, cfg.ResumeQueueSize)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
log_level: debug
redis_addr: localhost:6379
resume_workers: 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.ResumeWorkers)
	// Untouched keys keep their defaults.
	assert.Equal(t, 32, cfg.ResumeQueueSize)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, "prot: 9090\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "port: 9090\n")

	t.Setenv("AGENTICUM_PORT", "7070")
	t.Setenv("AGENTICUM_LOG_LEVEL", "warn")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}
