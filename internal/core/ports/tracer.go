package ports

import "context"

// Tracer instruments stage execution. StartStage returns a derived context
// carrying the span and a completion callback that records the outcome.
type Tracer interface {
	StartStage(ctx context.Context, name string) (context.Context, func(err error))
}
