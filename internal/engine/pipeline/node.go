package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jig/internal/adapters/inject"
	"go.trai.ch/jig/internal/adapters/logger"
	"go.trai.ch/jig/internal/adapters/runner"
	"go.trai.ch/jig/internal/adapters/serve"
	"go.trai.ch/jig/internal/adapters/telemetry"
	"go.trai.ch/jig/internal/adapters/transpile"
	"go.trai.ch/jig/internal/adapters/watcher"
	"go.trai.ch/jig/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.NodeID,
			transpile.NodeID,
			inject.NodeID,
			serve.NodeID,
			runner.NodeID,
			watcher.NodeID,
			watcher.HashCacheNodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			transpiler, err := graft.Dep[ports.Transpiler](ctx)
			if err != nil {
				return nil, err
			}
			injector, err := graft.Dep[ports.Injector](ctx)
			if err != nil {
				return nil, err
			}
			server, err := graft.Dep[ports.Server](ctx)
			if err != nil {
				return nil, err
			}
			bundleRunner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			fsWatcher, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			hashCache, err := graft.Dep[*watcher.HashCache](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, tracer, transpiler, injector, server, bundleRunner, fsWatcher, hashCache), nil
		},
	})
}
