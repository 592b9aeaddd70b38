package domain

import "go.trai.ch/zerr"

// Sentinel error kinds. Callers attach detail by joining a sentinel with
// a zerr error carrying the metadata; errors.Is matches the sentinel
// through the join, which is what the failure policy classifies on.
var (
	// ErrStageAlreadyExists is returned when attempting to add a stage with a name that already exists.
	ErrStageAlreadyExists = zerr.New("stage already exists")

	// ErrMissingDependency is returned when a stage references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the stage dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrTranspileFailed is returned when one or more scripts fail to transpile.
	// The pipeline logs it and continues with whatever output was produced.
	ErrTranspileFailed = zerr.New("transpile failed")

	// ErrEntryNotFound is returned when no HTML entry document matches the configured pattern.
	ErrEntryNotFound = zerr.New("html entry document not found")

	// ErrMarkerNotFound is returned when the entry document lacks the script injection markers.
	ErrMarkerNotFound = zerr.New("inject markers not found in entry document")

	// ErrBundleNotReady is returned when the bundle file does not appear
	// (or does not stop growing) before the configured wait timeout.
	// The exec stage logs it and skips the spawn for that cycle.
	ErrBundleNotReady = zerr.New("bundle not ready before timeout")

	// ErrBundleRunFailed is returned when the spawned bundle process exits non-zero.
	ErrBundleRunFailed = zerr.New("bundle execution failed")
)
