package ports

import (
	"context"

	"go.trai.ch/elixirpack/internal/core/domain"
)

// CacheManager moves persisted build state between the cache and the application.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_manager.go -destination=mocks/mock_cache_manager.go -package=mocks
type CacheManager interface {
	// Setup invalidates stale toolchains and restores cached state into the application.
	Setup(ctx context.Context, cfg domain.BuildConfig, layout domain.Layout) error

	// Teardown persists the application's state and records the build.
	Teardown(ctx context.Context, cfg domain.BuildConfig, layout domain.Layout) error
}
