package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipid/internal/structures"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testConfigYaml = `
webServer:
  host: 127.0.0.1
  port: 9001

persistence:
  filePath: /tmp/lipid-store.dat
  saveInterval: 15

logger:
  level: debug
  mode: 420
  dir: /tmp

admin:
  username: piyush_admin
  password: donbosco2024

mentor:
  apiKey: test-key
  chatModel: gemini-1.5-flash-latest
  imageModel: gemini-2.5-flash-image
  historyTurns: 4

cache:
  enabled: true
  size: 8
  ttl: 2s

metrics:
  enabled: false
`

func TestNewConfigProvider_ReadsYaml(t *testing.T) {
	path := writeConfigFile(t, "lipid_read.yaml", testConfigYaml)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "LipiWorkspaceDaemon", conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 9001, conf.WebServer.Port)
	assert.Equal(t, "/tmp/lipid-store.dat", conf.Persistence.FilePath)
	assert.Equal(t, time.Duration(15), conf.Persistence.SaveInterval)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, "test-key", conf.Mentor.APIKey)
	assert.Equal(t, 4, conf.Mentor.HistoryTurns)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 2*time.Second, conf.Cache.TTL)
	assert.False(t, conf.Metrics.Enabled)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	assert.Error(t, err)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "lipid_env.yaml", testConfigYaml)

	t.Setenv("LIPID_LOG_LEVEL", "warn")
	t.Setenv("LIPID_ADMIN_PASSWORD", "rotated")
	t.Setenv("GEMINI_API_KEY", "env-key")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "warn", conf.Logger.Level)
	assert.Equal(t, "rotated", conf.Admin.Password)
	assert.Equal(t, "env-key", conf.Mentor.APIKey)
}

func TestNewConfigProvider_ValidationFailure(t *testing.T) {
	broken := `
webServer:
  host: 127.0.0.1
  port: 9001
`
	path := writeConfigFile(t, "lipid_broken.yaml", broken)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
