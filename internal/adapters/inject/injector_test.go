package inject_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/html"

	"go.trai.ch/jig/internal/adapters/inject"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports/mocks"
)

const entryDoc = `<!DOCTYPE html>
<html>
  <head>
    <title>demo</title>
  </head>
  <body>
    <!-- jig:js -->
    <!-- endjig -->
  </body>
</html>
`

func testConfig(t *testing.T, liveReload bool) domain.PipelineConfig {
	t.Helper()
	root := t.TempDir()
	cfg := domain.PipelineConfig{
		Paths: domain.Paths{
			Source: filepath.Join(root, "src"),
			Build:  filepath.Join(root, "build"),
		},
		Patterns: domain.Patterns{
			HTML:     "index.html",
			Scripts:  "**/*.js",
			Minified: "**/*.min.js",
		},
		Server: domain.ServerOptions{LiveReload: liveReload},
	}
	require.NoError(t, os.MkdirAll(cfg.Paths.Source, 0o750))
	require.NoError(t, os.MkdirAll(cfg.Paths.Build, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.Source, "index.html"), []byte(entryDoc), 0o600))
	return cfg
}

func writeBuilt(t *testing.T, cfg domain.PipelineConfig, rel string) {
	t.Helper()
	path := filepath.Join(cfg.Paths.Build, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("// "+rel), 0o600))
}

func newTestLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	return log
}

func TestInjector_Inject_Golden(t *testing.T) {
	cfg := testConfig(t, true)
	writeBuilt(t, cfg, "a.min.js")
	writeBuilt(t, cfg, "b.min.js")
	writeBuilt(t, cfg, "c.js")

	// One successful inject logs exactly one summary line.
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Info(gomock.Any()).Times(1)

	inj := inject.NewInjector(log)
	outPath, err := inj.Inject(context.Background(), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "inject_browser", data)
}

func TestInjector_Inject_Order(t *testing.T) {
	cfg := testConfig(t, false)
	writeBuilt(t, cfg, "a.min.js")
	writeBuilt(t, cfg, "b.min.js")
	writeBuilt(t, cfg, "c.js")

	inj := inject.NewInjector(newTestLogger(t))
	outPath, err := inj.Inject(context.Background(), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	refs := scriptSources(t, data)
	assert.Equal(t, []string{"a.min.js", "b.min.js", "c.js"}, refs,
		"minified references must precede plain references")
}

func TestInjector_Inject_RelativePaths(t *testing.T) {
	cfg := testConfig(t, false)
	// The entry lives in a subdirectory; references must be relative to it.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Paths.Source, "pages"), 0o750))
	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.Source, "index.html")))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.Source, "pages", "index.html"), []byte(entryDoc), 0o600))
	cfg.Patterns.HTML = "pages/index.html"

	writeBuilt(t, cfg, "vendor/lib.min.js")
	writeBuilt(t, cfg, "app.js")

	inj := inject.NewInjector(newTestLogger(t))
	outPath, err := inj.Inject(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.Build, "pages", "index.html"), outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	refs := scriptSources(t, data)
	assert.Equal(t, []string{"../vendor/lib.min.js", "../app.js"}, refs)
}

func TestInjector_Inject_Idempotent(t *testing.T) {
	cfg := testConfig(t, false)
	writeBuilt(t, cfg, "a.js")

	inj := inject.NewInjector(newTestLogger(t))
	outPath, err := inj.Inject(context.Background(), cfg)
	require.NoError(t, err)
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)

	// Re-injecting from the same inputs produces the same document.
	_, err = inj.Inject(context.Background(), cfg)
	require.NoError(t, err)
	second, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestInjector_Inject_MissingEntry(t *testing.T) {
	cfg := testConfig(t, false)
	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.Source, "index.html")))

	inj := inject.NewInjector(newTestLogger(t))
	_, err := inj.Inject(context.Background(), cfg)
	assert.True(t, errors.Is(err, domain.ErrEntryNotFound), "expected ErrEntryNotFound, got %v", err)
}

func TestInjector_Inject_MissingMarkers(t *testing.T) {
	cfg := testConfig(t, false)
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Paths.Source, "index.html"),
		[]byte("<!DOCTYPE html><html><body></body></html>"),
		0o600,
	))

	inj := inject.NewInjector(newTestLogger(t))
	_, err := inj.Inject(context.Background(), cfg)
	assert.True(t, errors.Is(err, domain.ErrMarkerNotFound), "expected ErrMarkerNotFound, got %v", err)
}

// scriptSources parses the document and returns the src attribute of every
// script element in document order.
func scriptSources(t *testing.T, data []byte) []string {
	t.Helper()

	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "src" {
					refs = append(refs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs
}
