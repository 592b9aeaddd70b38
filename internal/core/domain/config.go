// Package domain contains the core domain models for the build pipeline:
// the pipeline configuration, the stage dependency graph and the failure
// policy consulted when a stage run fails.
package domain

import (
	"path/filepath"
	"time"
)

// Live-reload endpoints served in browser mode. The injector references
// the script path from the entry document; the server mounts both routes.
const (
	LiveReloadEventsPath = "/_jig/reload"
	LiveReloadScriptPath = "/_jig/reload.js"
)

// Paths holds the absolute source and build roots of a project.
type Paths struct {
	Source string
	Build  string
}

// Patterns identifies the files each stage operates on. All globs are
// doublestar-compatible and matched relative to the source root.
type Patterns struct {
	// HTML matches the single entry document rewritten by the inject stage.
	HTML string
	// Scripts matches every script the transpile stage processes.
	Scripts string
	// Minified matches pre-built scripts. They are never transpiled and
	// always ordered before plain scripts, since they are assumed to be
	// third-party libraries that must execute before application code.
	Minified string
}

// ServerOptions configures the browser-mode static file server.
type ServerOptions struct {
	Port       int
	LiveReload bool
}

// WaitOptions configures the bundle-availability poll used by the exec stage.
type WaitOptions struct {
	// Delay is the initial pause before the first existence check.
	Delay time.Duration
	// Interval is the pause between existence checks.
	Interval time.Duration
	// Timeout bounds the whole wait; expiry is the only explicit failure
	// path in the pipeline.
	Timeout time.Duration
	// Settle is the trailing window during which the file size must stay
	// stable before the wait returns, so a bundle that is still being
	// written is not executed half-flushed.
	Settle time.Duration
}

// PipelineConfig is the single long-lived configuration value of a run.
// It is constructed once by the config loader and passed read-only to
// every stage; nothing mutates it after construction.
type PipelineConfig struct {
	Paths    Paths
	Bundle   string
	Patterns Patterns
	Server   ServerOptions
	Wait     WaitOptions
	// Runtime is the command prefix used to spawn the bundle in terminal
	// mode, e.g. ["node"].
	Runtime []string
}

// BundlePath returns the absolute path of the terminal-mode bundle file.
func (c PipelineConfig) BundlePath() string {
	return filepath.Join(c.Paths.Build, c.Bundle)
}

// ServerRoot returns the document root served in browser mode. It is
// derived from the build path so the two can never disagree.
func (c PipelineConfig) ServerRoot() string {
	return c.Paths.Build
}
