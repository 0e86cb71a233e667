package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/elixirpack/internal/adapters/archive"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/download"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/elixirpack/internal/engine/cache"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cache.NodeID,
			download.NodeID,
			archive.NodeID,
			shell.NodeID,
			fs.TreeNodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			resolver, err := graft.Dep[ports.ConfigResolver](ctx)
			if err != nil {
				return nil, err
			}

			cacheManager, err := graft.Dep[ports.CacheManager](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.ArtifactFetcher](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
			if err != nil {
				return nil, err
			}

			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[*fs.Tree](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(resolver, cacheManager, fetcher, extractor, runner, tree, tel, log), nil
		},
	})
}
