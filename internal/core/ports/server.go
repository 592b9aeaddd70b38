package ports

import (
	"context"

	"go.trai.ch/jig/internal/core/domain"
)

// Server serves the build output directory and pushes live-reload
// notifications to connected browser clients.
//
//go:generate mockgen -source=server.go -destination=mocks/mock_server.go -package=mocks
type Server interface {
	// Start binds the listener and begins serving in the background.
	// The bind error is returned synchronously; a failure here is fatal.
	// The server shuts down when ctx is cancelled.
	Start(ctx context.Context, cfg domain.PipelineConfig) error

	// NotifyReload broadcasts a reload event to all connected clients.
	// It is a no-op when no client is connected.
	NotifyReload()

	// Addr returns the bound address, e.g. "127.0.0.1:8080".
	// It is only valid after Start has returned nil.
	Addr() string
}
