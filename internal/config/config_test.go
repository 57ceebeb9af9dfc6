package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
)

func TestLoadDefaultsWithMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "markdown", c.Format)
	assert.Equal(t, 100000, c.MaxRows)
	assert.Equal(t, ":8080", c.ServerAddr)
	assert.Equal(t, heuristics.Default(), c.Heuristics)
	assert.Equal(t, Defaults(), c)
}

func TestLoadFileAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "format: json\nmax_rows: 500\nheuristics:\n  max_kpis: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("GLANCE_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("GLANCE_HEURISTICS_MAX_CHARTS", "6")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, 500, c.MaxRows)
	assert.Equal(t, "127.0.0.1:9999", c.ServerAddr)
	assert.Equal(t, 4, c.Heuristics.MaxKPIs)
	assert.Equal(t, 6, c.Heuristics.MaxCharts)
	assert.Equal(t, heuristics.Default().MinCharts, c.Heuristics.MinCharts)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GLANCE_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GLANCE_LOG_LEVEL") })

	c, err := Load(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadRejectsBadFormat(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: pdf\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, Set(c, "format", "html"))
	require.NoError(t, Set(c, "max_rows", "42"))
	require.NoError(t, Set(c, "heuristics.dominance_pct", "60"))
	require.NoError(t, Set(c, "heuristics.max_insights", "3"))
	assert.Error(t, Set(c, "format", "pdf"))
	assert.Error(t, Set(c, "max_rows", "-1"))
	assert.Error(t, Set(c, "heuristics.max_insights", "many"))
	assert.True(t, errors.Is(Set(c, "api_key", "x"), ErrUnknownKey))
	assert.True(t, errors.Is(Set(c, "heuristics.nope", "1"), ErrUnknownKey))

	require.NoError(t, Save(c, path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "html", back.Format)
	assert.Equal(t, 42, back.MaxRows)
	assert.Equal(t, 60.0, back.Heuristics.DominancePct)
	assert.Equal(t, 3, back.Heuristics.MaxInsights)
}

func TestKeysIncludeHeuristics(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "format")
	assert.Contains(t, keys, "heuristics.sample_size")
}

// chdir changes the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
