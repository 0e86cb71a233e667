package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/elixirpack/internal/adapters/shell"
	"go.trai.ch/elixirpack/internal/core/ports"
)

// NodeID is the unique identifier for the archive extractor Graft node.
const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[ports.ArchiveExtractor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ArchiveExtractor, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewExtractor(runner), nil
		},
	})
}
