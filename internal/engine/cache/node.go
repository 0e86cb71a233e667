package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/elixirpack/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/state"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/core/ports"
)

// NodeID is the unique identifier for the cache manager Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[ports.CacheManager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.TreeNodeID, state.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.CacheManager, error) {
			tree, err := graft.Dep[*fs.Tree](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewManager(tree, store, log), nil
		},
	})
}
