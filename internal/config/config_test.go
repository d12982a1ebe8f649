package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "system_server", cfg.Device.AgentProcess)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, "localhost:2222", cfg.Storage.SFTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.Storage.SFTP.Timeout)
	assert.False(t, cfg.Inventory.IncludeSystem)
	assert.Equal(t, FormatTable, cfg.Output.Format)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("APPINVENTORY_STORAGE_BACKEND", "sftp")
	t.Setenv("APPINVENTORY_STORAGE_SFTP_TIMEOUT", "5s")
	t.Setenv("APPINVENTORY_INVENTORY_INCLUDE_SYSTEM", "true")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, StorageSFTP, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Storage.SFTP.Timeout)
	assert.True(t, cfg.Inventory.IncludeSystem)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appinventory.yaml")

	err := os.WriteFile(path, []byte(`
log:
  level: debug
storage:
  dir: /tmp/pins
output:
  format: yaml
`), 0o600)
	require.NoError(t, err)

	v := New()
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/pins", cfg.Storage.Dir)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestReadFileMissingExplicitPath(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  any
		errMsg string
	}{
		{name: "log level", key: "log.level", value: "verbose", errMsg: "invalid log level"},
		{name: "storage backend", key: "storage.backend", value: "s3", errMsg: "invalid storage backend"},
		{name: "storage dir", key: "storage.dir", value: "", errMsg: "storage directory required"},
		{name: "sftp address", key: "storage.sftp.addr", value: "", errMsg: "sftp address"},
		{name: "output format", key: "output.format", value: "xml", errMsg: "invalid output format"},
		{name: "agent process", key: "device.agent_process", value: "", errMsg: "agent process required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.value)

			if tt.key == "storage.sftp.addr" {
				v.Set("storage.backend", StorageSFTP)
			}

			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
