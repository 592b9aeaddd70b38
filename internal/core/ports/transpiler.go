package ports

import (
	"context"

	"go.trai.ch/jig/internal/core/domain"
)

// Transpiler lowers browser scripts to runtime-compatible syntax.
//
//go:generate mockgen -source=transpiler.go -destination=mocks/mock_transpiler.go -package=mocks
type Transpiler interface {
	// TranspileTree converts every script under the source root and writes
	// the results to the build root, preserving relative paths. Scripts
	// matching the minified pattern are copied through untouched.
	//
	// Per-file failures do not abort the tree: the remaining files are
	// still written and the failures are reported as a single error
	// wrapping domain.ErrTranspileFailed. The returned slice lists the
	// build-root paths that were written.
	TranspileTree(ctx context.Context, cfg domain.PipelineConfig) ([]string, error)

	// Bundle concatenates the ordered script set into the terminal bundle
	// file: minified scripts first, verbatim, then the remaining scripts,
	// transpiled. Returns the bundle path.
	Bundle(ctx context.Context, cfg domain.PipelineConfig) (string, error)
}
