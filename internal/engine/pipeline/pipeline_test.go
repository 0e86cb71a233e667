package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elixirpack/internal/adapters/fs"
	"go.trai.ch/elixirpack/internal/adapters/telemetry"
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/elixirpack/internal/core/ports/mocks"
	"go.trai.ch/elixirpack/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	resolver  *mocks.MockConfigResolver
	cache     *mocks.MockCacheManager
	fetcher   *mocks.MockArtifactFetcher
	extractor *mocks.MockArchiveExtractor
	runner    *mocks.MockCommandRunner
	logger    *mocks.MockLogger
	telemetry ports.Telemetry

	layout   domain.Layout
	cfg      domain.BuildConfig
	stdout   *bytes.Buffer
	commands []domain.Command
	// failOn makes the first command whose line contains it fail.
	failOn string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	layout := domain.NewLayout(filepath.Join(root, "app"), filepath.Join(root, "cache"), filepath.Join(root, "env"))
	for _, dir := range []string{layout.AppDir, filepath.Dir(layout.CacheDir), layout.EnvDir} {
		require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	}
	writeFile(t, layout.AppPath(domain.MixProjectFile), "defmodule App.MixProject do\nend\n")

	f := &fixture{
		resolver:  mocks.NewMockConfigResolver(ctrl),
		cache:     mocks.NewMockCacheManager(ctrl),
		fetcher:   mocks.NewMockArtifactFetcher(ctrl),
		extractor: mocks.NewMockArchiveExtractor(ctrl),
		runner:    mocks.NewMockCommandRunner(ctrl),
		logger:    log,
		telemetry: telemetry.NewNoop(),
		layout:    layout,
		stdout:    &bytes.Buffer{},
		cfg: domain.BuildConfig{
			RuntimeVersion:  "26.2.1",
			LanguageVersion: "1.16.0",
			Stack:           "heroku-22",
			Source:          domain.ConfigSourceApp,
			Environment:     domain.NewEnvironment(map[string]string{"PATH": "/usr/bin", "MIX_ENV": "prod"}),
		},
	}

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (domain.CommandResult, error) {
			f.commands = append(f.commands, cmd)
			if f.failOn != "" && strings.Contains(cmd.String(), f.failOn) {
				out := []byte("** (Mix) compilation failed")
				return domain.CommandResult{Output: out, ExitCode: 1}, &domain.CommandFailure{
					Command: cmd.String(), ExitCode: 1, Output: out, Cause: errors.New("exit status 1"),
				}
			}
			return domain.CommandResult{Output: []byte("ok\n")}, nil
		}).AnyTimes()

	return f
}

func (f *fixture) pipeline() *pipeline.Pipeline {
	return pipeline.New(f.resolver, f.cache, f.fetcher, f.extractor, f.runner, fs.NewTree(), f.telemetry, f.logger)
}

func (f *fixture) run(t *testing.T) (pipeline.Result, error) {
	t.Helper()
	return f.pipeline().Run(context.Background(), pipeline.Request{
		Layout:     f.layout,
		ProcessEnv: domain.NewEnvironment(map[string]string{"STACK": "heroku-22"}),
		Stdout:     f.stdout,
	})
}

// expectConfig makes the resolver and the cache manager succeed.
func (f *fixture) expectConfig() {
	f.resolver.EXPECT().Resolve(gomock.Any(), f.layout, gomock.Any()).Return(f.cfg, nil).AnyTimes()
	f.cache.EXPECT().Setup(gomock.Any(), f.cfg, f.layout).Return(nil).AnyTimes()
}

// expectDownloads makes the fetcher write an archive and the extractor lay out a toolchain.
func (f *fixture) expectDownloads(t *testing.T) {
	t.Helper()
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, dest string) error {
			writeFile(t, dest, "archive")
			return nil
		}).Times(2)
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, format domain.ArchiveFormat, dest string) error {
			seedToolchain(t, dest, format)
			return nil
		}).Times(2)
}

func seedToolchain(t *testing.T, dest string, format domain.ArchiveFormat) {
	t.Helper()
	if format == domain.ArchiveTarGz {
		writeFile(t, filepath.Join(dest, "Install"), "#!/bin/sh\n")
		writeFile(t, filepath.Join(dest, "bin", "erl"), "#!/bin/sh\n")
		return
	}
	writeFile(t, filepath.Join(dest, "bin", "mix"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(dest, "bin", "elixir"), "#!/bin/sh\n")
}

func (f *fixture) seedWarmCache(t *testing.T) {
	t.Helper()
	seedToolchain(t, f.layout.CachePath(domain.RuntimeCacheDir), domain.ArchiveTarGz)
	seedToolchain(t, f.layout.CachePath(domain.LanguageCacheDir), domain.ArchiveZip)
}

func (f *fixture) lines() []string {
	out := make([]string, 0, len(f.commands))
	for _, cmd := range f.commands {
		out = append(out, cmd.String())
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestRun_ColdBuild(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectDownloads(t)
	f.cache.EXPECT().Teardown(gomock.Any(), f.cfg, f.layout).Return(nil)
	writeFile(t, filepath.Join(f.layout.DownloadPath(), "otp-stale.tar.gz"), "old")

	res, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, domain.StepDone, res.Step)
	assert.Equal(t, f.cfg, res.Config)
	for step, status := range res.Statuses {
		assert.Equal(t, pipeline.StatusCompleted, status, step.String())
	}

	otp := f.layout.ToolsPath(domain.RuntimeCacheDir)
	elixir := f.layout.ToolsPath(domain.LanguageCacheDir)
	assert.Equal(t, []string{
		filepath.Join(otp, "Install") + " -minimal " + otp,
		"mix local.rebar --force",
		"mix local.hex --force",
		"mix deps.get --only $MIX_ENV",
		"mix compile --force",
		"mix deps.clean --unused",
	}, f.lines())

	compile := f.commands[4]
	assert.Equal(t, f.layout.AppDir, compile.Dir)
	assert.Equal(t, f.layout.AppDir, compile.Env.Get("HOME"))
	assert.Equal(t,
		filepath.Join(elixir, "bin")+":"+filepath.Join(otp, "bin")+":/usr/bin",
		compile.Env.Get("PATH"))

	info, err := os.Stat(filepath.Join(elixir, "bin", "mix"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111, "elixir binaries are executable")

	downloads, err := os.ReadDir(f.layout.DownloadPath())
	require.NoError(t, err)
	assert.Len(t, downloads, 2, "stale archives are pruned")
	assert.NoFileExists(t, filepath.Join(f.layout.DownloadPath(), "otp-stale.tar.gz"))

	script, err := os.ReadFile(f.layout.ProfileScriptPath())
	require.NoError(t, err)
	assert.Equal(t, pipeline.ProfileScript(), string(script))

	export, err := os.ReadFile(f.layout.AppPath(domain.ExportFileName))
	require.NoError(t, err)
	assert.Equal(t, "\n"+pipeline.ProfileScript(), string(export))
	assert.Empty(t, f.stdout.String())
}

func TestRun_WarmCacheSkipsDownloads(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.seedWarmCache(t)
	f.cache.EXPECT().Teardown(gomock.Any(), f.cfg, f.layout).Return(nil).Times(2)
	// No fetcher or extractor expectations: any call fails the test.

	for range 2 {
		res, err := f.run(t)
		require.NoError(t, err)
		assert.Equal(t, pipeline.StatusCached, res.Statuses[domain.StepFetch])
	}
}

func TestRun_FetchMarksToolchainVerticesCached(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	f.telemetry = tel
	f.expectConfig()
	f.seedWarmCache(t)
	f.cache.EXPECT().Teardown(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ports.ContextWithVertex(ctx, vertex), vertex
		}).AnyTimes()
	vertex.EXPECT().Stdout().Return(&bytes.Buffer{}).AnyTimes()
	vertex.EXPECT().Complete(nil).AnyTimes()
	// Both toolchains plus the fetch step itself.
	vertex.EXPECT().Cached().Times(3)

	_, err := f.run(t)
	require.NoError(t, err)
}

func TestRun_NotDetected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.layout.AppPath(domain.MixProjectFile)))

	res, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrNotDetected)
	assert.Equal(t, domain.ExitCodeNotDetected, domain.ExitCode(err))
	assert.Equal(t, domain.StepAborted, res.Step)
	assert.Equal(t, domain.StepDetect, res.Failed)
	assert.Equal(t, pipeline.StatusPending, res.Statuses[domain.StepConfigure])
}

func TestRun_DirectoryGuard(t *testing.T) {
	t.Run("missing env dir", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.Remove(f.layout.EnvDir))

		_, err := f.run(t)
		require.ErrorIs(t, err, domain.ErrDirectoryMissing)
		assert.Equal(t, domain.ExitCodeFailed, domain.ExitCode(err))
	})

	t.Run("cache dir is a file", func(t *testing.T) {
		f := newFixture(t)
		platformCache := filepath.Dir(f.layout.CacheDir)
		require.NoError(t, os.Remove(platformCache))
		writeFile(t, platformCache, "")

		_, err := f.run(t)
		require.ErrorIs(t, err, domain.ErrNotADirectory)
	})

	t.Run("creates the cache root", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.BuildConfig{}, domain.ErrMissingStack)

		_, err := f.run(t)
		require.ErrorIs(t, err, domain.ErrMissingStack)
		assert.DirExists(t, f.layout.CacheDir)
	})
}

func TestRun_ConfigurationErrorStopsBeforeCache(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BuildConfig{}, domain.ErrMissingVersions)
	// No cache expectations: Setup must not run.

	res, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrMissingVersions)
	assert.True(t, domain.IsUserConfigurationError(err))
	assert.Equal(t, domain.StepConfigure, res.Failed)
	assert.Empty(t, f.commands)
}

func TestRun_FetchFailureRemovesPartialToolchain(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrTooManyRedirects)

	res, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrTooManyRedirects)
	assert.Equal(t, domain.StepFetch, res.Failed)
	assert.NoDirExists(t, f.layout.CachePath(domain.RuntimeCacheDir))
	assert.Empty(t, f.commands, "nothing is installed")
}

func TestRun_ExtractFailureDropsArchive(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, dest string) error {
			writeFile(t, dest, "corrupt")
			return nil
		})
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ domain.ArchiveFormat, dest string) error {
			writeFile(t, filepath.Join(dest, "half"), "x")
			return domain.ErrExtractFailed
		})

	_, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrExtractFailed)
	assert.NoDirExists(t, f.layout.CachePath(domain.RuntimeCacheDir))

	downloads, err := os.ReadDir(f.layout.DownloadPath())
	require.NoError(t, err)
	assert.Empty(t, downloads)
}

func TestRun_CommandFailurePrintsOutput(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.seedWarmCache(t)
	f.failOn = "mix compile"
	// No Teardown expectation: a failed build persists nothing.

	res, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, domain.StepCompile, res.Failed)
	assert.Equal(t, pipeline.StatusFailed, res.Statuses[domain.StepCompile])
	assert.Equal(t, pipeline.StatusPending, res.Statuses[domain.StepCacheTeardown])
	assert.Equal(t, "** (Mix) compilation failed\n", f.stdout.String())
	assert.NotContains(t, f.lines(), "mix deps.clean --unused")
}

func TestRun_CustomCommandsAndRelease(t *testing.T) {
	f := newFixture(t)
	f.cfg.PreCompileCommand = "npm run deploy"
	f.cfg.CompileCommand = "mix compile --warnings-as-errors"
	f.cfg.PostCompileCommand = "mix phx.digest"
	f.cfg.Release = true
	f.expectConfig()
	f.seedWarmCache(t)
	f.cache.EXPECT().Teardown(gomock.Any(), f.cfg, f.layout).Return(nil)

	_, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mix deps.get --only $MIX_ENV",
		"npm run deploy",
		"mix compile --warnings-as-errors",
		"mix phx.digest",
		"mix release --overwrite",
		"mix deps.clean --unused",
	}, f.lines()[3:])
}

func TestRun_TeardownFailure(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.seedWarmCache(t)
	f.cache.EXPECT().Teardown(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrCacheTeardownFailed)

	res, err := f.run(t)
	require.ErrorIs(t, err, domain.ErrCacheTeardownFailed)
	assert.Equal(t, domain.StepCacheTeardown, res.Failed)
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	require.ErrorIs(t, pipeline.Detect(dir), domain.ErrNotDetected)
	require.ErrorIs(t, pipeline.Detect(filepath.Join(dir, "missing")), domain.ErrNotDetected)

	writeFile(t, filepath.Join(dir, domain.MixProjectFile), "")
	require.NoError(t, pipeline.Detect(dir))
}

func TestProfileScript(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "profile_script", []byte(pipeline.ProfileScript()))
}
