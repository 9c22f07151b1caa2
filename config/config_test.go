package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "searchgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	s := cfg.Search

	assert.Equal(t, "[SEARCH]", s.AISearchFlag)
	assert.Equal(t, "/search", s.UserSearchPrefix)
	assert.Equal(t, "/confirm_search", s.ConfirmPrefix)
	assert.Equal(t, 60*time.Second, s.ConfirmTimeout())
	assert.Equal(t, 3, s.MinQueryLength)
	assert.Equal(t, 128, s.MaxQueryLength)
	assert.Equal(t, 15*time.Second, s.Cooldown())
	assert.Equal(t, 3, s.MaxResults)
	assert.False(t, s.BindChannel)
	assert.Zero(t, s.SweepInterval())

	assert.Equal(t, "duckduckgo", cfg.Provider.Type)
	assert.True(t, cfg.Audit.Enabled)
	assert.True(t, cfg.Memory.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
workspace:
  path: /tmp/searchgate-test
search:
  confirm_timeout_ms: 30000
  cooldown_seconds: 5
  bind_channel: true
  sweep_interval_seconds: 10
provider:
  type: duckduckgo
  region: de-de
  timeout: 5s
memory:
  enabled: true
  db_path: data/memory.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Search.ConfirmTimeout())
	assert.Equal(t, 5*time.Second, cfg.Search.Cooldown())
	assert.True(t, cfg.Search.BindChannel)
	assert.Equal(t, 10*time.Second, cfg.Search.SweepInterval())
	assert.Equal(t, "/confirm_search", cfg.Search.ConfirmPrefix, "unset fields get defaults")
	assert.Equal(t, 128, cfg.Search.MaxQueryLength)
	assert.Equal(t, "de-de", cfg.Provider.Region)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "/tmp/searchgate-test/data/memory.db", cfg.ResolvePath(cfg.Memory.DBPath))
	assert.Same(t, cfg, Get())
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "search:\n  max_results: 7\n")
	t.Setenv("SEARCHGATE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxResults)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bounds inverted":  "search:\n  min_query_length: 50\n  max_query_length: 10\n",
		"same prefixes":    "search:\n  user_search_prefix: /go\n  confirm_prefix: /go\n",
		"unknown provider": "provider:\n  type: bing\n",
		"mcp without tool": "provider:\n  type: mcp\n  mcp_server: brave\n",
		"malformed yaml":   "search: [unclosed\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{Workspace: WorkspaceConfig{Path: "/work"}}
	assert.Equal(t, "/work/a/b.db", cfg.ResolvePath("a/b.db"))
	assert.Equal(t, "/abs/b.db", cfg.ResolvePath("/abs/b.db"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.log"), cfg.ResolvePath("~/x.log"))
}

func TestWorkspaceFromEnv(t *testing.T) {
	t.Setenv("SEARCHGATE_WORKSPACE", "/srv/searchgate")
	assert.Equal(t, "/srv/searchgate", Default().Workspace.Path)
}
