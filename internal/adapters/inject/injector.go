// Package inject rewrites the HTML entry document with references to the
// built scripts.
package inject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/zerr"
)

// Markers delimit the injection region in the entry document. Everything
// between them is replaced on every inject; the markers themselves stay,
// so the rewrite is idempotent.
const (
	StartMarker = "<!-- jig:js -->"
	EndMarker   = "<!-- endjig -->"
)

var _ ports.Injector = (*Injector)(nil)

// Injector implements ports.Injector with marker-based rewriting.
type Injector struct {
	logger ports.Logger
}

// NewInjector creates a new Injector.
func NewInjector(logger ports.Logger) *Injector {
	return &Injector{logger: logger}
}

// Inject locates the entry document under the source root, collects the
// built scripts from the build root (minified group first, both groups
// sorted), rewrites the marker region with one script tag per file using
// paths relative to the output document, and writes the result to the
// build root. The transpile stage must already have populated the build
// root; the stage graph guarantees that ordering.
func (i *Injector) Inject(ctx context.Context, cfg domain.PipelineConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entryRel, err := findEntry(cfg)
	if err != nil {
		return "", err
	}

	src, err := os.ReadFile(filepath.Join(cfg.Paths.Source, filepath.FromSlash(entryRel))) //nolint:gosec // glob-matched entry document
	if err != nil {
		return "", zerr.Wrap(err, "failed to read entry document")
	}

	outPath := filepath.Join(cfg.Paths.Build, filepath.FromSlash(entryRel))

	refs, err := scriptRefs(cfg, filepath.Dir(outPath))
	if err != nil {
		return "", err
	}
	if cfg.Server.LiveReload {
		refs = append(refs, domain.LiveReloadScriptPath)
	}

	rewritten, err := rewrite(src, refs)
	if err != nil {
		return "", errors.Join(err, zerr.With(zerr.New("cannot rewrite entry"), "entry", entryRel))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create output directory")
	}
	if err := os.WriteFile(outPath, rewritten, 0o600); err != nil {
		return "", zerr.Wrap(err, "failed to write entry document")
	}

	i.logger.Info(fmt.Sprintf("injected %d script reference(s) into %s", len(refs), entryRel))

	return outPath, nil
}

// findEntry returns the single entry document matching the HTML pattern.
// When several match, the lexicographically first wins.
func findEntry(cfg domain.PipelineConfig) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(cfg.Paths.Source), cfg.Patterns.HTML)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "invalid html pattern"), "pattern", cfg.Patterns.HTML)
	}
	if len(matches) == 0 {
		detail := zerr.With(zerr.New("no document matched"), "pattern", cfg.Patterns.HTML)
		detail = zerr.With(detail, "source", cfg.Paths.Source)
		return "", errors.Join(domain.ErrEntryNotFound, detail)
	}
	slices.Sort(matches)
	return matches[0], nil
}

// scriptRefs collects the built scripts in injection order as paths
// relative to the output document's directory.
func scriptRefs(cfg domain.PipelineConfig, outDir string) ([]string, error) {
	fsys := os.DirFS(cfg.Paths.Build)

	minified, err := doublestar.Glob(fsys, cfg.Patterns.Minified)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid minified pattern"), "pattern", cfg.Patterns.Minified)
	}
	all, err := doublestar.Glob(fsys, cfg.Patterns.Scripts)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid scripts pattern"), "pattern", cfg.Patterns.Scripts)
	}

	slices.Sort(minified)
	slices.Sort(all)

	minSet := make(map[string]struct{}, len(minified))
	for _, m := range minified {
		minSet[m] = struct{}{}
	}

	ordered := slices.Clone(minified)
	for _, path := range all {
		if _, ok := minSet[path]; !ok {
			ordered = append(ordered, path)
		}
	}

	refs := make([]string, 0, len(ordered))
	for _, rel := range ordered {
		ref, err := filepath.Rel(outDir, filepath.Join(cfg.Paths.Build, filepath.FromSlash(rel)))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to relativize script path")
		}
		refs = append(refs, filepath.ToSlash(ref))
	}

	return refs, nil
}

// rewrite replaces the region between the markers with one script tag
// per reference, preserving the markers and the start marker's
// indentation.
func rewrite(doc []byte, refs []string) ([]byte, error) {
	start := bytes.Index(doc, []byte(StartMarker))
	end := bytes.Index(doc, []byte(EndMarker))
	if start < 0 || end < 0 || end < start {
		return nil, domain.ErrMarkerNotFound
	}

	indent := lineIndent(doc, start)

	var b bytes.Buffer
	b.Grow(len(doc) + len(refs)*64)
	b.Write(doc[:start+len(StartMarker)])
	b.WriteByte('\n')
	for _, ref := range refs {
		b.WriteString(indent)
		b.WriteString(`<script src="` + ref + `"></script>`)
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.Write(doc[end:])

	return b.Bytes(), nil
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(doc []byte, pos int) string {
	lineStart := bytes.LastIndexByte(doc[:pos], '\n') + 1
	i := lineStart
	for i < pos && (doc[i] == ' ' || doc[i] == '\t') {
		i++
	}
	return string(doc[lineStart:i])
}
