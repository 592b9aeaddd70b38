package transpile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/jig/internal/adapters/transpile"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports/mocks"
)

const (
	libA = `var libA=function(){return "a"};`
	libB = `var libB=function(){return "b"};`
	app  = `const greet = (name) => ` + "`hello ${name}`" + `;`
)

func testConfig(t *testing.T) domain.PipelineConfig {
	t.Helper()
	root := t.TempDir()
	cfg := domain.PipelineConfig{
		Paths: domain.Paths{
			Source: filepath.Join(root, "src"),
			Build:  filepath.Join(root, "build"),
		},
		Bundle: "bundle.js",
		Patterns: domain.Patterns{
			HTML:     "index.html",
			Scripts:  "**/*.js",
			Minified: "**/*.min.js",
		},
	}
	require.NoError(t, os.MkdirAll(cfg.Paths.Source, 0o750))
	return cfg
}

func writeSource(t *testing.T, cfg domain.PipelineConfig, rel, content string) {
	t.Helper()
	path := filepath.Join(cfg.Paths.Source, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	return mocks.NewMockLogger(gomock.NewController(t))
}

func TestTranspiler_Bundle_Order(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "a.min.js", libA)
	writeSource(t, cfg, "b.min.js", libB)
	writeSource(t, cfg, "c.js", app)

	tr := transpile.NewTranspiler(newTestLogger(t))
	bundlePath, err := tr.Bundle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.BundlePath(), bundlePath)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	content := string(data)

	// Minified libraries come through verbatim and strictly precede
	// the transpiled application code.
	posA := strings.Index(content, libA)
	posB := strings.Index(content, libB)
	posC := strings.Index(content, "greet")
	require.GreaterOrEqual(t, posA, 0, "a.min.js content missing")
	require.GreaterOrEqual(t, posB, 0, "b.min.js content missing")
	require.GreaterOrEqual(t, posC, 0, "transpiled c.js content missing")
	assert.Less(t, posA, posB)
	assert.Less(t, posB, posC)

	// ES5 target: the arrow function and template literal are lowered.
	assert.NotContains(t, content, "=>")
	assert.NotContains(t, content, "`")
}

func TestTranspiler_Bundle_SkipsFailedScripts(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "a.min.js", libA)
	writeSource(t, cfg, "broken.js", "const = ;")
	writeSource(t, cfg, "ok.js", "var ok = 1;")

	log := newTestLogger(t)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	tr := transpile.NewTranspiler(log)
	bundlePath, err := tr.Bundle(context.Background(), cfg)
	require.True(t, errors.Is(err, domain.ErrTranspileFailed), "expected ErrTranspileFailed, got %v", err)

	// The bundle is still written with the scripts that did transpile.
	data, readErr := os.ReadFile(bundlePath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), libA)
	assert.Contains(t, string(data), "ok")
}

func TestTranspiler_TranspileTree(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "vendor/lib.min.js", libA)
	writeSource(t, cfg, "app/main.js", app)

	tr := transpile.NewTranspiler(newTestLogger(t))
	written, err := tr.TranspileTree(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	// Relative paths are preserved under the build root.
	minOut, err := os.ReadFile(filepath.Join(cfg.Paths.Build, "vendor", "lib.min.js"))
	require.NoError(t, err)
	assert.Equal(t, libA, string(minOut), "minified file must pass through untouched")

	mainOut, err := os.ReadFile(filepath.Join(cfg.Paths.Build, "app", "main.js"))
	require.NoError(t, err)
	assert.Contains(t, string(mainOut), "function")
	assert.NotContains(t, string(mainOut), "=>")
}

func TestTranspiler_TranspileTree_ContinuesPastFailure(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "broken.js", "const = ;")
	writeSource(t, cfg, "ok.js", "var ok = 1;")

	log := newTestLogger(t)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	tr := transpile.NewTranspiler(log)
	written, err := tr.TranspileTree(context.Background(), cfg)
	require.True(t, errors.Is(err, domain.ErrTranspileFailed), "expected ErrTranspileFailed, got %v", err)

	// The healthy file was still written.
	require.Len(t, written, 1)
	assert.FileExists(t, filepath.Join(cfg.Paths.Build, "ok.js"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Build, "broken.js"))
}

func TestTranspiler_Bundle_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	writeSource(t, cfg, "a.js", "var a = 1;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := transpile.NewTranspiler(newTestLogger(t))
	_, err := tr.Bundle(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
