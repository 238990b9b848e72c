package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HelpRequestsCleanExit(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_NoManifestPathPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "MANIFEST_PATH")
}

func TestParse_PositionalManifestPath(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"manifests"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, "manifests", cfg.ManifestPath)
	assert.Equal(t, 8080, cfg.ListenPort)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_ManifestFlagVariants(t *testing.T) {
	t.Run("long flag", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-manifest", "a"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a", cfg.ManifestPath)
	})

	t.Run("shorthand", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-m", "b"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "b", cfg.ManifestPath)
	})

	t.Run("long flag beats positional", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-manifest", "a", "positional"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a", cfg.ManifestPath)
	})
}

func TestParse_Overrides(t *testing.T) {
	args := []string{
		"-port", "9000",
		"-log-level", "DEBUG",
		"-log-format", "text",
		"-shutdown-timeout", "3s",
		"-flags", "beta, labs,chatEnabled",
		"manifests",
	}

	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, 9000, cfg.ListenPort)
	assert.Equal(t, "debug", cfg.LogLevel, "levels are case-insensitive on the command line")
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"beta", "labs", "chatEnabled"}, cfg.Flags)
}

func TestParse_ConfigFileMergedUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modshell.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
ListenPort = 9090
ManifestPath = "from-file"
LogLevel = "warn"
`), 0644))

	cfg, shouldExit, err := Parse([]string{"-config", path, "-port", "7070"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, 7070, cfg.ListenPort, "explicit CLI flag wins over the file")
	assert.Equal(t, "warn", cfg.LogLevel, "file value survives when no flag overrides it")
	assert.Equal(t, "from-file", cfg.ManifestPath)
}

func TestParse_MissingConfigFileFails(t *testing.T) {
	_, _, err := Parse([]string{"-config", "/does/not/exist.toml", "manifests"}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidValues(t *testing.T) {
	t.Run("bad log format", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-format", "xml", "manifests"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid LogFormat")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := Parse([]string{"-log-level", "loud", "manifests"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "invalid LogLevel")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := Parse([]string{"--no-such-flag"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "flag provided but not defined")
	})
}
