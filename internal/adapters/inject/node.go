package inject

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/jig/internal/adapters/logger"
	"go.trai.ch/jig/internal/core/ports"
)

// NodeID is the unique identifier for the injector Graft node.
const NodeID graft.ID = "adapter.injector"

func init() {
	graft.Register(graft.Node[ports.Injector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Injector, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInjector(log), nil
		},
	})
}
