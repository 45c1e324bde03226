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
	path := filepath.Join(t.TempDir(), "blockquest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  ssh_port: 2022
storage:
  driver: badger
  path: /tmp/bq
`))
	require.NoError(t, err)
	assert.Equal(t, 2022, cfg.Server.GetSSHPort())
	assert.Equal(t, "host_key", cfg.Server.HostKey, "default kept")
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/bq", cfg.Storage.Path)
}

func TestLoadMissingFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"yaml", "server: [1, 2"},
		{"driver", "storage:\n  driver: mongo\n"},
		{"path", "storage:\n  driver: file\n  path: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPortFallbacks(t *testing.T) {
	var s ServerConfig
	t.Setenv("PORT", "")
	t.Setenv("BQ_HTTP_PORT", "")
	assert.Equal(t, 2222, s.GetSSHPort())
	assert.Equal(t, 8080, s.GetHTTPPort())

	t.Setenv("PORT", "3000")
	t.Setenv("BQ_HTTP_PORT", "junk")
	assert.Equal(t, 3000, s.GetSSHPort())
	assert.Equal(t, 8080, s.GetHTTPPort())

	s.SSHPort = 4000
	assert.Equal(t, 4000, s.GetSSHPort())
}
