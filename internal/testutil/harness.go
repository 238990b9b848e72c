// Package testutil provides the shared harness for integration-style tests
// that boot the full application from manifest files on disk.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modshell/modshell/internal/app"
	"github.com/modshell/modshell/internal/catalog"
	"github.com/modshell/modshell/internal/config"
	"github.com/modshell/modshell/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an application boot attempt.
// LogOutput snapshots the boot logs; LogBuffer keeps accruing afterwards,
// for assertions on events the running shell emits.
type HarnessResult struct {
	LogOutput string
	LogBuffer *SafeBuffer
	Err       error
	App       *app.App
}

// RunShellTest writes the given manifest files into a temporary directory,
// boots the application against them with debug logging, and captures the
// outcome. A startup panic is recovered into Err so tests can assert on
// boot failures.
func RunShellTest(t *testing.T, files map[string]string, mods ...catalog.Module) *HarnessResult {
	t.Helper()

	cfg := config.Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	return RunShellTestWithConfig(t, cfg, files, mods...)
}

// RunShellTestWithConfig is RunShellTest with a caller-controlled
// configuration. The manifest path is always pointed at the harness's
// temporary directory.
func RunShellTestWithConfig(t *testing.T, cfg config.Config, files map[string]string, mods ...catalog.Module) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-shell-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg.ManifestPath = tmpDir
	validated, err := config.New(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, validated, hcl.NewLoader(), mods...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			LogBuffer: logBuffer,
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	t.Cleanup(testApp.Close)
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		LogBuffer: logBuffer,
		App:       testApp,
	}
}
