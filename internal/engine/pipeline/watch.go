package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/jig/internal/adapters/watcher"
	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/zerr"
)

const batchChannelBuffer = 8

// Watch subscribes to changes under the source root and rebuilds once
// per coalesced change batch until ctx is cancelled. Each batch triggers
// exactly one rebuild, and in terminal mode exactly one execution.
func (p *Pipeline) Watch(ctx context.Context, mode domain.Mode, cfg domain.PipelineConfig) error {
	if err := p.watcher.Start(ctx, cfg.Paths.Source); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = p.watcher.Stop() }()

	batches := make(chan []string, batchChannelBuffer)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		for event := range p.watcher.Events() {
			if p.matches(mode, cfg, event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	p.logger.Info("watching " + cfg.Paths.Source)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-streamDone:
			return nil
		case paths := <-batches:
			changed := p.hashCache.Changed(paths)
			if len(changed) == 0 {
				continue
			}
			p.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(changed)))
			if err := p.rebuild(ctx, mode, cfg); err != nil {
				return err
			}
		}
	}
}

// matches reports whether a changed path is an input of the given mode.
func (p *Pipeline) matches(mode domain.Mode, cfg domain.PipelineConfig, path string) bool {
	rel, err := filepath.Rel(cfg.Paths.Source, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if ok, _ := doublestar.Match(cfg.Patterns.Scripts, rel); ok {
		return true
	}
	if mode == domain.ModeBrowser {
		if ok, _ := doublestar.Match(cfg.Patterns.HTML, rel); ok {
			return true
		}
	}
	return false
}

// rebuild reruns the transform stages for one change batch. The build
// root is not wiped again; stale siblings only disappear on restart.
func (p *Pipeline) rebuild(ctx context.Context, mode domain.Mode, cfg domain.PipelineConfig) error {
	switch mode {
	case domain.ModeBrowser:
		if err := p.runStage(ctx, StageTranspile, func(ctx context.Context) error {
			_, err := p.transpiler.TranspileTree(ctx, cfg)
			return err
		}); err != nil {
			return err
		}
		if err := p.runStage(ctx, StageInject, func(ctx context.Context) error {
			_, err := p.injector.Inject(ctx, cfg)
			return err
		}); err != nil {
			return err
		}
		p.server.NotifyReload()
		return nil

	case domain.ModeTerminal:
		if err := p.runStage(ctx, StageBundle, func(ctx context.Context) error {
			_, err := p.transpiler.Bundle(ctx, cfg)
			return err
		}); err != nil {
			return err
		}
		return p.runStage(ctx, StageExec, func(ctx context.Context) error {
			return p.runner.RunBundle(ctx, cfg)
		})
	}
	return nil
}
