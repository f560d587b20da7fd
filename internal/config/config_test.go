package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TMDB_API_TOKEN", "token")
	t.Setenv("TMDB_API_URL", "https://example.test/3/")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "token", cfg.TMDB.APIToken)
	assert.Equal(t, "https://example.test/3", cfg.TMDB.APIURL)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "zh-CN", cfg.TMDB.DefaultLocale)
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("TMDB_API_TOKEN", "")
	t.Setenv("TMDB_API_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB_API_TOKEN")
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_API_TOKEN", "")
	t.Setenv("ENV", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "env: staging\ntmdb:\n  api_key: abc\n  default_locale: en-US\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Local, cfg.Env, "unknown environments fall back to local")
	assert.Equal(t, "abc", cfg.TMDB.APIKey)
	assert.Equal(t, "en-US", cfg.TMDB.DefaultLocale)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
}

func TestLogLevelFallback(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "loud"}}
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestExitLevel(t *testing.T) {
	_, ok := (&Config{}).ExitLevel()
	assert.False(t, ok)

	_, ok = (&Config{Log: LogConfig{ExitLevel: "never"}}).ExitLevel()
	assert.False(t, ok)

	lvl, ok := (&Config{Log: LogConfig{ExitLevel: "ERROR"}}).ExitLevel()
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, lvl)
}
