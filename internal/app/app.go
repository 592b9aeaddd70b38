// Package app implements the application layer for jig.
package app

import (
	"context"
	"errors"
	"os"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/jig/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App wires the pipeline to the CLI commands.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	pipeline     *pipeline.Pipeline
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, pipe *pipeline.Pipeline) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		pipeline:     pipe,
	}
}

// Dev runs the full dev loop for the given mode: an initial build, the
// delivery stage (server or bundle execution) and the watch loop. It
// blocks until ctx is cancelled; cancellation is a clean shutdown, not
// an error.
func (a *App) Dev(ctx context.Context, mode domain.Mode) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	g, err := a.pipeline.Graph(mode, cfg, false)
	if err != nil {
		return err
	}
	if err := a.pipeline.Run(ctx, g); err != nil {
		return err
	}

	err = a.pipeline.Watch(ctx, mode, cfg)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Build runs a one-shot build for the given mode: transpile and inject
// in browser mode, bundle in terminal mode. No server, no execution,
// no watching.
func (a *App) Build(ctx context.Context, mode domain.Mode) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	g, err := a.pipeline.Graph(mode, cfg, true)
	if err != nil {
		return err
	}
	return a.pipeline.Run(ctx, g)
}

func (a *App) loadConfig() (domain.PipelineConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return domain.PipelineConfig{}, zerr.Wrap(err, "failed to determine working directory")
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.PipelineConfig{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}
