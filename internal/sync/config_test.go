// ABOUTME: Tests for sync configuration management.
// ABOUTME: Verifies LoadConfig, SaveConfig, env overrides, and timeout parsing.

package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/macros/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir and clears overrides.
func withConfigHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{EnvBackend, EnvRedisURL, EnvKeyPrefix, EnvCharmHost} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestLoadConfigNoFile(t *testing.T) {
	withConfigHome(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, "", cfg.RedisURL)
}

func TestSaveAndLoadConfig(t *testing.T) {
	withConfigHome(t)

	cfg := &Config{
		Backend:       remote.BackendRedis,
		RedisURL:      "redis://localhost:6379/0",
		KeyPrefix:     "me",
		RecordTimeout: "3s",
	}
	require.NoError(t, SaveConfig(cfg))
	assert.FileExists(t, ConfigPath())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.IsConfigured())

	timeout, err := loaded.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	withConfigHome(t)

	require.NoError(t, SaveConfig(&Config{Backend: remote.BackendCharm, CharmHost: "charm.example.com"}))
	t.Setenv(EnvBackend, remote.BackendRedis)
	t.Setenv(EnvRedisURL, "redis://cache:6379")
	t.Setenv(EnvKeyPrefix, "override")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, remote.BackendRedis, cfg.Backend)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, "override", cfg.KeyPrefix)
	assert.Equal(t, "charm.example.com", cfg.CharmHost)

	opts := cfg.RemoteOptions(nil)
	assert.Equal(t, remote.BackendRedis, opts.Backend)
	assert.Equal(t, "override", opts.KeyPrefix)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	withConfigHome(t)

	require.NoError(t, os.MkdirAll(ConfigDir(), 0750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte(`{"backend":`), 0600))
	_, err := LoadConfig()
	assert.Error(t, err)

	require.NoError(t, SaveConfig(&Config{Backend: remote.BackendMemory, RecordTimeout: "soon"}))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestTimeoutDefault(t *testing.T) {
	timeout, err := (&Config{}).Timeout()
	require.NoError(t, err)
	assert.Equal(t, DefaultRecordTimeout, timeout)

	_, err = (&Config{RecordTimeout: "-1s"}).Timeout()
	assert.Error(t, err)
}

func TestConfigDirXDG(t *testing.T) {
	tmpDir := withConfigHome(t)

	assert.Equal(t, filepath.Join(tmpDir, "macros"), ConfigDir())
	assert.Equal(t, filepath.Join(tmpDir, "macros", "sync.json"), ConfigPath())
}

func TestConfigDirFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "macros"), ConfigDir())
}

func TestClearConfig(t *testing.T) {
	withConfigHome(t)

	require.NoError(t, ClearConfig(), "clearing with no file is a no-op")

	require.NoError(t, SaveConfig(&Config{Backend: remote.BackendMemory}))
	assert.FileExists(t, ConfigPath())

	require.NoError(t, ClearConfig())
	assert.NoFileExists(t, ConfigPath())
}
