// Package cache moves persisted build state between the buildpack cache and the
// application directory.
package cache

import (
	"context"
	"errors"

	"go.trai.ch/elixirpack/internal/adapters/fs" //nolint:depguard // the tree copy is the cache's only storage primitive
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Manager implements ports.CacheManager.
type Manager struct {
	tree   *fs.Tree
	store  ports.StateStore
	logger ports.Logger
}

// NewManager creates a Manager.
func NewManager(tree *fs.Tree, store ports.StateStore, logger ports.Logger) *Manager {
	return &Manager{tree: tree, store: store, logger: logger}
}

// Setup drops toolchains built for other versions and restores the cached
// application state. A missing cache root is treated as empty.
func (m *Manager) Setup(_ context.Context, cfg domain.BuildConfig, layout domain.Layout) error {
	m.logger.Info("Setting up caching")

	if cfg.DisableCache {
		m.logger.Warn("Disabling cache and deleting existing cache")
		if err := m.tree.Reset(layout.CacheDir); err != nil {
			return setupError(err, "reset cache")
		}
		return nil
	}

	m.logger.Debug("Restoring buildpack cache")
	if err := m.tree.Ensure(layout.CacheDir); err != nil {
		return setupError(err, "create cache")
	}

	last, err := m.store.Load(layout.StatePath())
	if err != nil {
		return setupError(err, "load last run")
	}
	inv := domain.Invalidate(last, cfg)

	if inv.RuntimeChanged {
		m.logger.Debug("OTP version changed, clearing cache")
		if err := m.tree.Remove(layout.CachePath(domain.RuntimeCacheDir)); err != nil {
			return setupError(err, "clear OTP")
		}
	}

	if inv.LanguageChanged {
		m.logger.Debug("Elixir version changed, clearing cache")
		if err := m.tree.Remove(layout.CachePath(domain.LanguageCacheDir)); err != nil {
			return setupError(err, "clear Elixir")
		}
	}

	m.logger.Debug("Restoring mix and hex caches")
	for _, area := range domain.PersistedAreas() {
		if err := m.restore(layout, area.SubArea, area.AppPath); err != nil {
			return setupError(err, "restore "+area.SubArea)
		}
	}

	return m.restoreBuild(cfg, layout, inv)
}

func (m *Manager) restoreBuild(cfg domain.BuildConfig, layout domain.Layout, inv domain.Invalidation) error {
	build := layout.CachePath(domain.BuildCacheDir)

	switch {
	case inv.LanguageChanged:
		if err := m.tree.Remove(build); err != nil {
			return setupError(err, "clear build cache")
		}
	case cfg.DisableBuildCache:
		m.logger.Debug("Skipping build cache")
		if err := m.tree.Remove(build); err != nil {
			return setupError(err, "clear build cache")
		}
	default:
		if err := m.restore(layout, domain.BuildCacheDir, domain.AppBuildDir); err != nil {
			return setupError(err, "restore build cache")
		}
	}

	return nil
}

// restore replaces the application copy of a sub-area. An absent sub-area
// leaves the application untouched.
func (m *Manager) restore(layout domain.Layout, subArea, appPath string) error {
	src := layout.CachePath(subArea)
	if !m.tree.IsDir(src) {
		return nil
	}
	return m.tree.Replace(src, layout.AppPath(appPath))
}

// Teardown persists the application state and records the toolchain versions.
func (m *Manager) Teardown(_ context.Context, cfg domain.BuildConfig, layout domain.Layout) error {
	m.logger.Info("Save build to cache")

	if cfg.DisableCache {
		m.logger.Warn("Skipping caching step and clearing existing cache")
		if err := m.tree.Remove(layout.CacheDir); err != nil {
			return teardownError(err, "clear cache")
		}
		return nil
	}

	m.logger.Debug("Saving Mix and Hex cache")
	for _, area := range domain.PersistedAreas() {
		if area.SubArea == domain.DepsCacheDir {
			m.logger.Debug("Saving app dependencies")
		}
		if err := m.persist(layout, area.SubArea, area.AppPath); err != nil {
			return teardownError(err, "save "+area.SubArea)
		}
	}

	if cfg.DisableBuildCache {
		m.logger.Debug("Skipping build cache")
	} else {
		m.logger.Debug("Saving app build cache")
		if err := m.persist(layout, domain.BuildCacheDir, domain.AppBuildDir); err != nil {
			return teardownError(err, "save build cache")
		}
	}

	m.logger.Debug("Saving OTP and Elixir versions to cache")
	if err := m.store.Save(layout.StatePath(), domain.StateFor(cfg)); err != nil {
		return teardownError(err, "save last run")
	}

	return nil
}

// persist replaces a sub-area with the application copy. When the application
// has no such directory the sub-area is removed so it never goes stale.
func (m *Manager) persist(layout domain.Layout, subArea, appPath string) error {
	src := layout.AppPath(appPath)
	dst := layout.CachePath(subArea)
	if !m.tree.IsDir(src) {
		return m.tree.Remove(dst)
	}
	return m.tree.Replace(src, dst)
}

func setupError(err error, msg string) error {
	return zerr.Wrap(errors.Join(domain.ErrCacheSetupFailed, err), msg)
}

func teardownError(err error, msg string) error {
	return zerr.Wrap(errors.Join(domain.ErrCacheTeardownFailed, err), msg)
}
