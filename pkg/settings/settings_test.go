package settings

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Default()
	assert.Equal(t, "mm", s.Units)
	assert.Equal(t, 1e-7, s.SewTolerance)
	assert.Equal(t, 1e-7, s.DiscardTolerance)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AIRFRAME_UNITS", "in")
	t.Setenv("AIRFRAME_SEW_TOLERANCE", "0.001")
	t.Setenv("AIRFRAME_LOG_LEVEL", "debug")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "in", s.Units)
	assert.Equal(t, 0.001, s.SewTolerance)
	assert.Equal(t, "debug", s.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, "text", s.LogFormat)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "airframe.yaml"), []byte("units: in\ndiscard_tolerance: 0.05\n"), 0o644))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "in", s.Units)
	assert.Equal(t, 0.05, s.DiscardTolerance)
	assert.Equal(t, 1e-7, s.SewTolerance)
}

func TestInitLogging(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	s := Default()
	s.LogFormat = "json"
	s.InitLogging(&buf)

	slog.Debug("hidden")
	slog.Info("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
