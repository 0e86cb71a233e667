package fs

import (
	"context"

	"github.com/grindlemire/graft"
)

// TreeNodeID is the unique identifier for the tree Graft node.
const TreeNodeID graft.ID = "adapter.fs.tree"

func init() {
	graft.Register(graft.Node[*Tree]{
		ID:        TreeNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Tree, error) {
			return NewTree(), nil
		},
	})
}
