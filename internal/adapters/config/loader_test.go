package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jig/internal/adapters/config"
	"go.trai.ch/jig/internal/core/domain"
)

func TestLoader_Load_Defaults(t *testing.T) {
	tmpDir := t.TempDir()

	loader := config.NewLoader(nil)
	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "src"), cfg.Paths.Source)
	assert.Equal(t, filepath.Join(tmpDir, "build"), cfg.Paths.Build)
	assert.Equal(t, "bundle.js", cfg.Bundle)
	assert.Equal(t, "index.html", cfg.Patterns.HTML)
	assert.Equal(t, "**/*.js", cfg.Patterns.Scripts)
	assert.Equal(t, "**/*.min.js", cfg.Patterns.Minified)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.LiveReload)
	assert.Equal(t, 30*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Wait.Delay)
	assert.Equal(t, []string{"node"}, cfg.Runtime)

	// Derived invariant: server root tracks the build path.
	assert.Equal(t, cfg.Paths.Build, cfg.ServerRoot())
}

func TestLoader_Load_File(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
version: "1"
paths:
  source: app
  build: out
bundle: all.js
patterns:
  minified: "vendor/**/*.min.js"
server:
  port: 4000
  livereload: false
wait:
  timeout: 5s
  interval: 50ms
runtime: [deno, run]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.FileName), []byte(content), 0o600))

	loader := config.NewLoader(nil)
	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "app"), cfg.Paths.Source)
	assert.Equal(t, filepath.Join(tmpDir, "out"), cfg.Paths.Build)
	assert.Equal(t, "all.js", cfg.Bundle)
	assert.Equal(t, "vendor/**/*.min.js", cfg.Patterns.Minified)
	// Unset fields fall back to defaults.
	assert.Equal(t, "**/*.js", cfg.Patterns.Scripts)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.False(t, cfg.Server.LiveReload)
	assert.Equal(t, 5*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Wait.Interval)
	assert.Equal(t, 200*time.Millisecond, cfg.Wait.Settle)
	assert.Equal(t, []string{"deno", "run"}, cfg.Runtime)
	assert.Equal(t, cfg.Paths.Build, cfg.ServerRoot())
}

func TestLoader_Load_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.FileName), []byte("bundle: root.js\n"), 0o600))

	loader := config.NewLoader(nil)
	cfg, err := loader.Load(nested)
	require.NoError(t, err)

	// Paths resolve against the config file's directory, not cwd.
	assert.Equal(t, "root.js", cfg.Bundle)
	assert.Equal(t, filepath.Join(tmpDir, "src"), cfg.Paths.Source)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.FileName), []byte("paths: ["), 0o600))

	loader := config.NewLoader(nil)
	_, err := loader.Load(tmpDir)
	assert.True(t, errors.Is(err, domain.ErrConfigParseFailed), "expected ErrConfigParseFailed, got %v", err)
}

func TestLoader_Load_InvalidDuration(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.FileName), []byte("wait:\n  timeout: soon\n"), 0o600))

	loader := config.NewLoader(nil)
	_, err := loader.Load(tmpDir)
	assert.True(t, errors.Is(err, domain.ErrConfigParseFailed), "expected ErrConfigParseFailed, got %v", err)
}
