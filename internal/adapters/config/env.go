package config

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// exportedLine matches one line of `env` output.
var exportedLine = regexp.MustCompile(`^([^=]+)=(.+)$`)

// buildEnvironment layers the build environment. Each layer overrides the
// previous one: the process environment, the environment exported by an earlier
// buildpack, the platform's environment directory. Defaults fill what is left unset.
func (r *Resolver) buildEnvironment(
	ctx context.Context,
	layout domain.Layout,
	processEnv domain.Environment,
) (domain.Environment, error) {
	env, err := r.loadExported(ctx, layout, processEnv)
	if err != nil {
		return domain.Environment{}, err
	}

	env, err = r.loadEnvDir(layout.EnvDir, env)
	if err != nil {
		return domain.Environment{}, err
	}

	r.logger.Debug("Setting default buildpack environment variables")
	return env.WithDefaults(domain.DefaultEnv), nil
}

// loadExported sources the export file left by an earlier buildpack and returns
// the environment it produces. That environment replaces processEnv entirely.
func (r *Resolver) loadExported(
	ctx context.Context,
	layout domain.Layout,
	processEnv domain.Environment,
) (domain.Environment, error) {
	path := layout.AppPath(domain.ExportFileName)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return processEnv, nil
	case err != nil:
		return domain.Environment{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrExportedEnvFailed, err), "failed to inspect export file"), "file", path)
	case info.IsDir():
		r.logger.Warn("There is a folder named export in the app directory, this can cause issues if using multiple buildpacks!")
		return processEnv, nil
	}

	r.logger.Debug("Loading environment from previous buildpack")

	cmd := domain.ShellCommand(
		". "+shellQuote(path)+" >/dev/null 2>&1 && env",
		layout.AppDir,
		processEnv.With("HOME", layout.AppDir),
	)
	// The listing holds every variable of the build, secrets included.
	cmd.Quiet = true
	res, err := r.runner.Run(ctx, cmd)
	if err != nil {
		var failure *domain.CommandFailure
		if errors.As(err, &failure) {
			failure.Output = nil
		}
		return domain.Environment{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrExportedEnvFailed, err), "failed to source export file"), "file", path)
	}

	return parseExported(res.Output), nil
}

func parseExported(output []byte) domain.Environment {
	vars := map[string]string{}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := exportedLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		vars[match[1]] = match[2]
	}

	return domain.NewEnvironment(vars)
}

// loadEnvDir applies one variable per file of dir on top of env. Dotfiles are
// ignored, denied names are dropped and the file contents are used verbatim.
func (r *Resolver) loadEnvDir(dir string, env domain.Environment) (domain.Environment, error) {
	if dir == "" {
		return env, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return env, nil
	}
	if err != nil {
		return domain.Environment{}, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrInvalidEnvEntry, err), "failed to list environment directory"), "dir", dir)
	}

	r.logger.Debug("Loading environment variables")

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)

	for _, name := range names {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err != nil {
			return domain.Environment{}, zerr.With(
				zerr.Wrap(errors.Join(domain.ErrInvalidEnvEntry, err), path+" is not a file"), "file", path)
		}
		if !info.Mode().IsRegular() {
			return domain.Environment{}, zerr.With(zerr.Wrap(domain.ErrInvalidEnvEntry, path+" is not a file"), "file", path)
		}

		if domain.IsDeniedEnvVar(name) {
			continue
		}

		value, err := os.ReadFile(path) //nolint:gosec // path is inside the platform's environment directory
		if err != nil {
			return domain.Environment{}, zerr.With(
				zerr.Wrap(errors.Join(domain.ErrInvalidEnvEntry, err), "failed to read environment variable"), "file", path)
		}
		env = env.With(name, string(value))
	}

	return env, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
