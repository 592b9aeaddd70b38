package ports

import (
	"context"

	"go.trai.ch/jig/internal/core/domain"
)

// Injector rewrites the HTML entry document with script references.
//
//go:generate mockgen -source=injector.go -destination=mocks/mock_injector.go -package=mocks
type Injector interface {
	// Inject locates the entry document under the source root, inserts a
	// reference tag for every built script between the designated markers
	// (minified scripts first, paths relative to the output document) and
	// writes the rewritten document to the build root. It returns the
	// output path.
	Inject(ctx context.Context, cfg domain.PipelineConfig) (string, error)
}
