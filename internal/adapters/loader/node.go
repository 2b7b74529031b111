package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/postcompile/internal/adapters/logger" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/postcompile/internal/adapters/shell"  //nolint:depguard // Wired in adapter layer
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/unit"
)

// NodeID is the unique identifier for the scope factory Graft node.
const NodeID graft.ID = "adapter.loader"

func init() {
	graft.Register(graft.Node[ports.ScopeFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, shell.NodeID},
		Run: func(ctx context.Context) (ports.ScopeFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log, executor, unit.Linked, unit.Platform), nil
		},
	})
}
