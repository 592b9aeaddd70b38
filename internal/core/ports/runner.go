package ports

import (
	"context"

	"go.trai.ch/jig/internal/core/domain"
)

// Runner executes the terminal bundle in a child process runtime.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// RunBundle clears the terminal, waits for the bundle file to exist
	// and stabilize, spawns it with the configured runtime and prints the
	// timed, captured output.
	//
	// If the bundle never appears before the wait timeout, the error wraps
	// domain.ErrBundleNotReady and no process is spawned.
	RunBundle(ctx context.Context, cfg domain.PipelineConfig) error
}
