package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Detect reports whether appDir holds a Mix project.
func Detect(appDir string) error {
	info, err := os.Stat(filepath.Join(appDir, domain.MixProjectFile))
	if err != nil || info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrNotDetected, "Elixir not detected"), "dir", appDir)
	}
	return nil
}

func (p *Pipeline) detect(_ context.Context, bc *buildContext) error {
	if err := Detect(bc.layout.AppDir); err != nil {
		return err
	}
	return p.guardDirectories(bc.layout)
}

// guardDirectories checks the directories handed over by the platform and
// creates the buildpack's cache root.
func (p *Pipeline) guardDirectories(layout domain.Layout) error {
	for _, dir := range []string{layout.AppDir, filepath.Dir(layout.CacheDir), layout.EnvDir} {
		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return zerr.With(zerr.Wrap(domain.ErrDirectoryMissing, dir+" does not exist"), "dir", dir)
		case err != nil:
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrDirectoryMissing, err), "failed to inspect directory"), "dir", dir)
		case !info.IsDir():
			return zerr.With(zerr.Wrap(domain.ErrNotADirectory, dir+" is a file"), "dir", dir)
		}
	}

	return p.tree.Ensure(layout.CacheDir)
}

func (p *Pipeline) configure(ctx context.Context, bc *buildContext) error {
	cfg, err := p.resolver.Resolve(ctx, bc.layout, bc.processEnv)
	if err != nil {
		return err
	}
	bc.cfg = cfg
	bc.env = cfg.Environment
	return nil
}

func (p *Pipeline) cacheSetup(ctx context.Context, bc *buildContext) error {
	return p.cache.Setup(ctx, bc.cfg, bc.layout)
}

func (p *Pipeline) cacheTeardown(ctx context.Context, bc *buildContext) error {
	return p.cache.Teardown(ctx, bc.cfg, bc.layout)
}

// fetch makes sure the cache holds extracted OTP and Elixir releases.
func (p *Pipeline) fetch(ctx context.Context, bc *buildContext) error {
	p.logger.Info("Downloading OTP and Elixir")

	language, err := domain.LanguageToolchain(bc.cfg)
	if err != nil {
		return err
	}
	toolchains := []domain.Toolchain{domain.RuntimeToolchain(bc.cfg), language}

	downloads := bc.layout.DownloadPath()
	if err := p.tree.Ensure(downloads); err != nil {
		return err
	}

	cached := 0
	keep := make([]string, 0, len(toolchains))
	for _, tc := range toolchains {
		keep = append(keep, tc.ArchiveName())

		hit, err := p.fetchToolchain(ctx, bc.layout, tc)
		if err != nil {
			return err
		}
		if hit {
			cached++
		}
	}

	p.logger.Debug("Removing any old versions of OTP or Elixir")
	if err := p.tree.Prune(downloads, keep...); err != nil {
		return err
	}

	bc.cached = cached == len(toolchains)
	return nil
}

// fetchToolchain downloads and extracts tc unless its sub-area already exists.
// It reports whether the cache already held the toolchain.
func (p *Pipeline) fetchToolchain(ctx context.Context, layout domain.Layout, tc domain.Toolchain) (bool, error) {
	_, vertex := p.telemetry.Record(ctx, "fetch "+tc.Name)

	dest := layout.CachePath(tc.SubArea)
	if p.tree.IsDir(dest) {
		p.logger.Debug("Using cached " + tc.Name)
		vertex.Cached()
		vertex.Complete(nil)
		return true, nil
	}

	err := p.download(ctx, layout, tc, dest)
	vertex.Complete(err)
	if err != nil {
		// A half-extracted toolchain must never look like a cache hit.
		_ = p.tree.Remove(dest)
		return false, zerr.With(zerr.With(err, "toolchain", tc.Name), "version", tc.Version)
	}
	return false, nil
}

func (p *Pipeline) download(ctx context.Context, layout domain.Layout, tc domain.Toolchain, dest string) error {
	archive := filepath.Join(layout.DownloadPath(), tc.ArchiveName())

	if p.tree.Exists(archive) {
		p.logger.Debug("Using cached " + tc.Name + " download")
	} else {
		p.logger.Debug("Downloading " + tc.Name)
		if err := p.fetcher.Fetch(ctx, tc.URL, archive); err != nil {
			return err
		}
	}

	if err := p.tree.Ensure(dest); err != nil {
		return err
	}
	if err := p.extractor.Extract(ctx, archive, tc.Format, dest); err != nil {
		// The archive is likely corrupt; fetch it again next time.
		_ = p.tree.Remove(archive)
		return err
	}
	return nil
}

// install copies the cached toolchains into the application and prepares Mix.
func (p *Pipeline) install(ctx context.Context, bc *buildContext) error {
	p.logger.Info("Installing OTP and Elixir")

	if err := p.tree.Ensure(bc.layout.AppPath(domain.PlatformToolsDir)); err != nil {
		return installError(err, "create platform tools")
	}

	p.logger.Debug("Installing OTP")
	otp := bc.layout.ToolsPath(domain.RuntimeCacheDir)
	if err := p.tree.Replace(bc.layout.CachePath(domain.RuntimeCacheDir), otp); err != nil {
		return installError(err, "copy OTP")
	}
	installer := domain.Command{Name: filepath.Join(otp, "Install"), Args: []string{"-minimal", otp}, Env: bc.env}
	if err := p.exec(ctx, installer); err != nil {
		return installError(err, "run OTP installer")
	}
	bc.env = bc.env.PrependPath(filepath.Join(otp, "bin"))

	p.logger.Debug("Installing Elixir")
	elixir := bc.layout.ToolsPath(domain.LanguageCacheDir)
	if err := p.tree.Replace(bc.layout.CachePath(domain.LanguageCacheDir), elixir); err != nil {
		return installError(err, "copy Elixir")
	}
	if err := p.tree.MakeExecutable(filepath.Join(elixir, "bin")); err != nil {
		return installError(err, "make Elixir executable")
	}
	bc.env = bc.env.PrependPath(filepath.Join(elixir, "bin"))

	p.logger.Debug("Setting up Rebar")
	if err := p.runInApp(ctx, bc, "mix local.rebar --force"); err != nil {
		return installError(err, "set up Rebar")
	}

	p.logger.Debug("Setting up Hex")
	if err := p.runInApp(ctx, bc, "mix local.hex --force"); err != nil {
		return installError(err, "set up Hex")
	}

	p.logger.Debug("Installing profile script")
	if err := writeProfileScript(bc.layout); err != nil {
		return installError(err, "install profile script")
	}

	return nil
}

// compile fetches dependencies, compiles the application and removes unused dependencies.
func (p *Pipeline) compile(ctx context.Context, bc *buildContext) error {
	p.logger.Info("Compiling the application")

	p.logger.Debug("Getting application dependencies")
	if err := p.runInApp(ctx, bc, "mix deps.get --only $MIX_ENV"); err != nil {
		return err
	}

	p.logger.Debug("Compiling application")
	if bc.cfg.PreCompileCommand != "" {
		p.logger.Debug("Running pre-compile command")
		if err := p.runInApp(ctx, bc, bc.cfg.PreCompileCommand); err != nil {
			return err
		}
	}

	compileCommand := "mix compile --force"
	if bc.cfg.CompileCommand != "" {
		p.logger.Debug("Running custom compile command")
		compileCommand = bc.cfg.CompileCommand
	}
	if err := p.runInApp(ctx, bc, compileCommand); err != nil {
		return err
	}

	if bc.cfg.PostCompileCommand != "" {
		p.logger.Debug("Running post-compile command")
		if err := p.runInApp(ctx, bc, bc.cfg.PostCompileCommand); err != nil {
			return err
		}
	}

	if bc.cfg.Release {
		p.logger.Debug("Building release")
		if err := p.runInApp(ctx, bc, "mix release --overwrite"); err != nil {
			return err
		}
	}

	p.logger.Debug("Removing unused application dependencies")
	return p.runInApp(ctx, bc, "mix deps.clean --unused")
}

// runInApp runs line through the shell in the application directory, with the
// application directory as HOME.
func (p *Pipeline) runInApp(ctx context.Context, bc *buildContext, line string) error {
	return p.exec(ctx, domain.ShellCommand(line, bc.layout.AppDir, bc.env.With("HOME", bc.layout.AppDir)))
}

// exec runs cmd and attaches its output to the current vertex.
func (p *Pipeline) exec(ctx context.Context, cmd domain.Command) error {
	res, err := p.runner.Run(ctx, cmd)
	if v, ok := ports.VertexFromContext(ctx); ok && len(res.Output) > 0 {
		_, _ = v.Stdout().Write(res.Output)
	}
	return err
}

func installError(err error, msg string) error {
	return zerr.Wrap(errors.Join(domain.ErrInstallFailed, err), msg)
}
