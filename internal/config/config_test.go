package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.GitBinary)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 100*time.Millisecond, cfg.RefreshDelay())
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, "origin", cfg.DefaultRemote)
	assert.Equal(t, 1000, cfg.LogMaxLines)
	assert.Empty(t, cfg.LogFile)
	assert.True(t, cfg.IsProtected("main"))
	assert.False(t, cfg.IsProtected("feature/x"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.GitBinary)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"git_binary: /usr/local/bin/git\ntimeout_seconds: 10\ndefault_remote: upstream\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", cfg.GitBinary)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "upstream", cfg.DefaultRemote)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.LogMaxLines)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds: 10\n"), 0o644))
	t.Setenv("GITDECK_TIMEOUT_SECONDS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("log_max_lines: 50\nprotected_branches: [trunk]\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.LogMaxLines)
	assert.True(t, cfg.IsProtected("trunk"))
	assert.False(t, cfg.IsProtected("main"))
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty binary", `git_binary: ""`},
		{"zero timeout", "timeout_seconds: 0"},
		{"negative refresh delay", "refresh_delay_ms: -1"},
		{"zero log cap", "log_max_lines: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("git_binary: [unclosed\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
