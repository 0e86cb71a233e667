// Package config resolves the build configuration of an application.
package config

import (
	"context"
	_ "embed"
	"errors"
	"os"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed defaults/elixir-buildpack.yml
var defaultConfig []byte

// Resolver implements ports.ConfigResolver.
type Resolver struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewResolver creates a Resolver. The runner loads environments exported by
// earlier buildpacks.
func NewResolver(runner ports.CommandRunner, logger ports.Logger) *Resolver {
	return &Resolver{runner: runner, logger: logger}
}

// Resolve picks the first configuration source present in the application,
// validates it and layers the build environment over processEnv.
func (r *Resolver) Resolve(
	ctx context.Context,
	layout domain.Layout,
	processEnv domain.Environment,
) (domain.BuildConfig, error) {
	cfg, err := r.readSource(layout)
	if err != nil {
		return domain.BuildConfig{}, err
	}

	if cfg.RuntimeVersion == "" || cfg.LanguageVersion == "" {
		return domain.BuildConfig{}, zerr.With(
			zerr.Wrap(domain.ErrMissingVersions, "resolve configuration"), "source", string(cfg.Source))
	}
	r.logger.Debug("Using OTP: " + cfg.RuntimeVersion)
	r.logger.Debug("Using Elixir: " + cfg.LanguageVersion)

	cfg.Stack = processEnv.Get("STACK")
	if cfg.Stack == "" {
		return domain.BuildConfig{}, zerr.Wrap(domain.ErrMissingStack, "resolve configuration")
	}
	r.logger.Debug("Using stack: " + cfg.Stack)

	env, err := r.buildEnvironment(ctx, layout, processEnv)
	if err != nil {
		return domain.BuildConfig{}, err
	}
	cfg.Environment = env

	return cfg, nil
}

func (r *Resolver) readSource(layout domain.Layout) (domain.BuildConfig, error) {
	path := layout.AppPath(domain.ConfigFileName)
	data, found, err := readOptional(path)
	if err != nil {
		return domain.BuildConfig{}, err
	}
	if found {
		r.logger.Debug("Using config from app")
		v, err := parseDocument(data)
		if err != nil {
			return domain.BuildConfig{}, zerr.With(zerr.Wrap(err, "failed to parse config"), "file", path)
		}
		return v.apply(currentKeys, domain.ConfigSourceApp), nil
	}

	path = layout.AppPath(domain.LegacyConfigFileName)
	data, found, err = readOptional(path)
	if err != nil {
		return domain.BuildConfig{}, err
	}
	if found {
		r.logger.Warn("Using a legacy config")
		v, err := parseLegacy(data)
		if err != nil {
			return domain.BuildConfig{}, zerr.With(err, "file", path)
		}
		return v.apply(legacyKeys, domain.ConfigSourceLegacy), nil
	}

	r.logger.Warn("Using default config")
	v, err := parseDocument(defaultConfig)
	if err != nil {
		return domain.BuildConfig{}, zerr.Wrap(err, "failed to parse bundled config")
	}
	return v.apply(currentKeys, domain.ConfigSourceDefault), nil
}

// readOptional reads path, reporting found=false when it does not exist.
func readOptional(path string) (data []byte, found bool, err error) {
	data, err = os.ReadFile(path) //nolint:gosec // path is inside the application directory
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, false, nil
	default:
		return nil, false, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to read config"), "file", path)
	}
}
