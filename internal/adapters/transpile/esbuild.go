// Package transpile implements the transpile and bundle stages using
// github.com/evanw/esbuild.
package transpile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Transpiler = (*Transpiler)(nil)

// Transpiler lowers scripts with esbuild's Transform API. Minified
// scripts pass through untouched in both variants.
type Transpiler struct {
	logger ports.Logger
}

// NewTranspiler creates a new esbuild-backed Transpiler.
func NewTranspiler(logger ports.Logger) *Transpiler {
	return &Transpiler{logger: logger}
}

// TranspileTree converts every plain script under the source root and
// writes the results to the build root, preserving relative paths.
// Minified scripts are copied verbatim. Per-file failures are collected
// and the remaining files still written; the failures come back as one
// error wrapping domain.ErrTranspileFailed.
func (t *Transpiler) TranspileTree(ctx context.Context, cfg domain.PipelineConfig) ([]string, error) {
	minified, plain, err := collectGroups(cfg.Paths.Source, cfg.Patterns)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(minified)+len(plain))
	var failed []string

	for _, rel := range minified {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out, err := t.copyThrough(cfg, rel)
		if err != nil {
			failed = append(failed, rel+": "+err.Error())
			continue
		}
		written = append(written, out)
	}

	// Plain scripts are independent of each other, so the transforms run
	// in parallel. Results land in indexed slots to keep the output order
	// deterministic.
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	outs := make([]string, len(plain))
	fails := make([]string, len(plain))
	for i, rel := range plain {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			code, err := t.transform(cfg.Paths.Source, rel)
			if err != nil {
				fails[i] = rel + ": " + err.Error()
				return nil
			}
			out := filepath.Join(cfg.Paths.Build, filepath.FromSlash(rel))
			if err := writeFile(out, code); err != nil {
				fails[i] = rel + ": " + err.Error()
				return nil
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return written, err
	}
	for _, out := range outs {
		if out != "" {
			written = append(written, out)
		}
	}
	for _, fail := range fails {
		if fail != "" {
			failed = append(failed, fail)
		}
	}

	if len(failed) > 0 {
		return written, t.reportFailures(failed)
	}
	return written, nil
}

// Bundle concatenates the ordered script set into the terminal bundle:
// minified scripts first, verbatim, then the remaining scripts,
// transpiled. Scripts that fail to transpile are skipped so the bundle
// still contains whatever output was produced.
func (t *Transpiler) Bundle(ctx context.Context, cfg domain.PipelineConfig) (string, error) {
	minified, plain, err := collectGroups(cfg.Paths.Source, cfg.Patterns)
	if err != nil {
		return "", err
	}

	parts := make([][]byte, 0, len(minified)+len(plain))
	var failed []string

	for _, rel := range minified {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := os.ReadFile(filepath.Join(cfg.Paths.Source, filepath.FromSlash(rel))) //nolint:gosec // glob-matched source file
		if err != nil {
			failed = append(failed, rel+": "+err.Error())
			continue
		}
		parts = append(parts, data)
	}

	for _, rel := range plain {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := t.transform(cfg.Paths.Source, rel)
		if err != nil {
			failed = append(failed, rel+": "+err.Error())
			continue
		}
		parts = append(parts, code)
	}

	bundlePath := cfg.BundlePath()
	if err := writeFile(bundlePath, bytes.Join(parts, []byte("\n"))); err != nil {
		return "", zerr.Wrap(err, "failed to write bundle")
	}

	if len(failed) > 0 {
		return bundlePath, t.reportFailures(failed)
	}
	return bundlePath, nil
}

// reportFailures warns about each script that could not be processed and
// folds the batch into a single survivable error.
func (t *Transpiler) reportFailures(failed []string) error {
	for _, fail := range failed {
		t.logger.Warn("failed to transpile " + fail)
	}
	detail := zerr.With(zerr.New("scripts failed"), "failures", strings.Join(failed, "; "))
	return errors.Join(domain.ErrTranspileFailed, detail)
}

// transform lowers a single script to ES5-compatible syntax.
func (t *Transpiler) transform(sourceRoot, rel string) ([]byte, error) {
	path := filepath.Join(sourceRoot, filepath.FromSlash(rel))
	data, err := os.ReadFile(path) //nolint:gosec // glob-matched source file
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read script")
	}

	result := api.Transform(string(data), api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     api.ES5,
		Sourcefile: rel,
	})
	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			messages = append(messages, msg.Text)
		}
		return nil, zerr.New(strings.Join(messages, "; "))
	}

	return result.Code, nil
}

// copyThrough copies a minified script to the build root unchanged.
func (t *Transpiler) copyThrough(cfg domain.PipelineConfig, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(cfg.Paths.Source, filepath.FromSlash(rel))) //nolint:gosec // glob-matched source file
	if err != nil {
		return "", err
	}
	out := filepath.Join(cfg.Paths.Build, filepath.FromSlash(rel))
	if err := writeFile(out, data); err != nil {
		return "", err
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
