package ports

import (
	"context"

	"go.trai.ch/elixirpack/internal/core/domain"
)

// ConfigResolver produces the configuration of a build.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_resolver.go -destination=mocks/mock_config_resolver.go -package=mocks
type ConfigResolver interface {
	// Resolve reads the application's configuration sources and merges the
	// build environment on top of processEnv.
	Resolve(ctx context.Context, layout domain.Layout, processEnv domain.Environment) (domain.BuildConfig, error)
}
