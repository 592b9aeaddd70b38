// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/jig/internal/adapters/config"
	_ "go.trai.ch/jig/internal/adapters/inject"
	_ "go.trai.ch/jig/internal/adapters/logger"
	_ "go.trai.ch/jig/internal/adapters/runner"
	_ "go.trai.ch/jig/internal/adapters/serve"
	_ "go.trai.ch/jig/internal/adapters/telemetry"
	_ "go.trai.ch/jig/internal/adapters/transpile"
	_ "go.trai.ch/jig/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/jig/internal/app"
	_ "go.trai.ch/jig/internal/engine/pipeline"
)
