// Package pipeline assembles the build stages into a dependency graph
// per mode, runs them under the failure policy and re-triggers builds
// from file system changes.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/jig/internal/adapters/watcher"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/zerr"
)

// Stage names. They appear in trace spans and log lines.
const (
	StageClean     = "clean"
	StageTranspile = "transpile"
	StageInject    = "inject"
	StageServe     = "serve"
	StageBundle    = "bundle"
	StageExec      = "exec"
)

// Pipeline drives the build stages for one project.
type Pipeline struct {
	logger     ports.Logger
	tracer     ports.Tracer
	transpiler ports.Transpiler
	injector   ports.Injector
	server     ports.Server
	runner     ports.Runner
	watcher    ports.Watcher
	hashCache  *watcher.HashCache
	policy     *domain.FailurePolicy

	// The build root is wiped once per process, not once per build, so
	// watch-triggered rebuilds never race the server's document root.
	cleanOnce sync.Once
}

// New creates a pipeline from its collaborators.
func New(
	logger ports.Logger,
	tracer ports.Tracer,
	transpiler ports.Transpiler,
	injector ports.Injector,
	server ports.Server,
	runner ports.Runner,
	fsWatcher ports.Watcher,
	hashCache *watcher.HashCache,
) *Pipeline {
	return &Pipeline{
		logger:     logger,
		tracer:     tracer,
		transpiler: transpiler,
		injector:   injector,
		server:     server,
		runner:     runner,
		watcher:    fsWatcher,
		hashCache:  hashCache,
		policy:     domain.DefaultFailurePolicy(),
	}
}

// Graph builds the stage dependency graph for the given mode. When
// oneShot is true the delivery stages (serve, exec) are left out, which
// is what `jig build` wants.
func (p *Pipeline) Graph(mode domain.Mode, cfg domain.PipelineConfig, oneShot bool) (*domain.Graph, error) {
	g := domain.NewGraph()

	if err := g.AddStage(domain.Stage{
		Name: StageClean,
		Run:  func(context.Context) error { return p.clean(cfg) },
	}); err != nil {
		return nil, err
	}

	switch mode {
	case domain.ModeBrowser:
		if err := g.AddStage(domain.Stage{
			Name:      StageTranspile,
			DependsOn: []string{StageClean},
			Run: func(ctx context.Context) error {
				_, err := p.transpiler.TranspileTree(ctx, cfg)
				return err
			},
		}); err != nil {
			return nil, err
		}
		if err := g.AddStage(domain.Stage{
			Name:      StageInject,
			DependsOn: []string{StageTranspile},
			Run: func(ctx context.Context) error {
				_, err := p.injector.Inject(ctx, cfg)
				return err
			},
		}); err != nil {
			return nil, err
		}
		if !oneShot {
			if err := g.AddStage(domain.Stage{
				Name:      StageServe,
				DependsOn: []string{StageInject},
				Run: func(ctx context.Context) error {
					return p.server.Start(ctx, cfg)
				},
			}); err != nil {
				return nil, err
			}
		}

	case domain.ModeTerminal:
		if err := g.AddStage(domain.Stage{
			Name:      StageBundle,
			DependsOn: []string{StageClean},
			Run: func(ctx context.Context) error {
				_, err := p.transpiler.Bundle(ctx, cfg)
				return err
			},
		}); err != nil {
			return nil, err
		}
		if !oneShot {
			if err := g.AddStage(domain.Stage{
				Name:      StageExec,
				DependsOn: []string{StageBundle},
				Run: func(ctx context.Context) error {
					return p.runner.RunBundle(ctx, cfg)
				},
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Run walks the graph in dependency order. Stage failures are classified
// by the failure policy: fatal errors abort the walk, the rest are
// logged and the walk continues.
func (p *Pipeline) Run(ctx context.Context, g *domain.Graph) error {
	for stage := range g.Walk() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStage(ctx, stage.Name, stage.Run); err != nil {
			return err
		}
	}
	return nil
}

// runStage executes one stage under a trace span and the failure
// policy. A nil return means the walk may continue.
func (p *Pipeline) runStage(ctx context.Context, name string, run func(context.Context) error) error {
	stageCtx, end := p.tracer.StartStage(ctx, name)
	err := run(stageCtx)
	end(err)

	if err == nil {
		return nil
	}
	// The join keeps the original error (and its sentinels) reachable
	// for errors.Is, with the stage name riding along as detail.
	err = errors.Join(err, zerr.With(zerr.New("stage failed"), "stage", name))
	if p.policy.Classify(err) == domain.SeverityContinue {
		p.logger.Error(err)
		return nil
	}
	return err
}

// clean wipes everything directly under the build root. The sync.Once
// restricts the wipe to the first build of the process.
func (p *Pipeline) clean(cfg domain.PipelineConfig) error {
	var cleanErr error
	p.cleanOnce.Do(func() {
		cleanErr = wipeDir(cfg.Paths.Build)
	})
	return cleanErr
}

func wipeDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create build directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return zerr.Wrap(err, "failed to read build directory")
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove build entry"), "entry", entry.Name())
		}
	}
	return nil
}
