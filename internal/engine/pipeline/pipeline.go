// Package pipeline runs the build of an Elixir application as an ordered list
// of steps with a single abort path.
package pipeline

import (
	"context"
	"errors"
	"io"
	"os"

	"go.trai.ch/elixirpack/internal/adapters/fs" //nolint:depguard // tree copies are part of the install step
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	// StatusPending indicates the step has not started.
	StatusPending StepStatus = "Pending"
	// StatusCompleted indicates the step finished successfully.
	StatusCompleted StepStatus = "Completed"
	// StatusFailed indicates the step aborted the build.
	StatusFailed StepStatus = "Failed"
	// StatusCached indicates the step had nothing to do because the cache satisfied it.
	StatusCached StepStatus = "Cached"
)

// Request describes one build.
type Request struct {
	Layout     domain.Layout
	ProcessEnv domain.Environment
	// Stdout receives the output of a failed command. Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports how far a build got.
type Result struct {
	// Step is StepDone or StepAborted.
	Step domain.Step
	// Failed is the step that aborted the build. Only meaningful when Step is StepAborted.
	Failed   domain.Step
	Statuses map[domain.Step]StepStatus
	Config   domain.BuildConfig
}

// buildContext is the state threaded through the steps of one build.
type buildContext struct {
	layout     domain.Layout
	processEnv domain.Environment
	cfg        domain.BuildConfig
	// env is the working environment of build commands. Install extends its PATH.
	env domain.Environment
	// cached is set by a step that found all of its work already done.
	cached bool
}

type step struct {
	id  domain.Step
	run func(ctx context.Context, bc *buildContext) error
}

// Pipeline implements the compile phase of the buildpack.
type Pipeline struct {
	resolver  ports.ConfigResolver
	cache     ports.CacheManager
	fetcher   ports.ArtifactFetcher
	extractor ports.ArchiveExtractor
	runner    ports.CommandRunner
	tree      *fs.Tree
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a Pipeline.
func New(
	resolver ports.ConfigResolver,
	cache ports.CacheManager,
	fetcher ports.ArtifactFetcher,
	extractor ports.ArchiveExtractor,
	runner ports.CommandRunner,
	tree *fs.Tree,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		cache:     cache,
		fetcher:   fetcher,
		extractor: extractor,
		runner:    runner,
		tree:      tree,
		telemetry: telemetry,
		logger:    logger,
	}
}

func (p *Pipeline) steps() []step {
	return []step{
		{id: domain.StepDetect, run: p.detect},
		{id: domain.StepConfigure, run: p.configure},
		{id: domain.StepCacheSetup, run: p.cacheSetup},
		{id: domain.StepFetch, run: p.fetch},
		{id: domain.StepInstall, run: p.install},
		{id: domain.StepCompile, run: p.compile},
		{id: domain.StepCacheTeardown, run: p.cacheTeardown},
	}
}

// Run executes every step in order. The first failing step aborts the build.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	steps := p.steps()
	res := Result{Statuses: make(map[domain.Step]StepStatus, len(steps))}
	for _, s := range steps {
		res.Statuses[s.id] = StatusPending
	}

	bc := &buildContext{layout: req.Layout, processEnv: req.ProcessEnv}

	for _, s := range steps {
		bc.cached = false
		stepCtx, vertex := p.telemetry.Record(ctx, s.id.String())

		err := s.run(stepCtx, bc)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		if err != nil {
			vertex.Complete(err)
			res.Statuses[s.id] = StatusFailed
			res.Step, res.Failed, res.Config = domain.StepAborted, s.id, bc.cfg
			return res, p.abort(req, s.id, err)
		}

		if bc.cached {
			vertex.Cached()
			res.Statuses[s.id] = StatusCached
		} else {
			res.Statuses[s.id] = StatusCompleted
		}
		vertex.Complete(nil)
	}

	p.logger.Info("Successfully built Elixir app")
	res.Step, res.Config = domain.StepDone, bc.cfg
	return res, nil
}

// abort is the only exit of a failed build. The captured output of a failed
// command goes to stdout so the platform shows it with the build log.
func (p *Pipeline) abort(req Request, failed domain.Step, err error) error {
	var failure *domain.CommandFailure
	if errors.As(err, &failure) && len(failure.Output) > 0 {
		out := req.Stdout
		if out == nil {
			out = os.Stdout
		}
		_, _ = out.Write(failure.Output)
		if failure.Output[len(failure.Output)-1] != '\n' {
			_, _ = io.WriteString(out, "\n")
		}
	}

	if errors.Is(err, domain.ErrNotDetected) {
		return err
	}
	return zerr.With(zerr.Wrap(err, "build aborted"), "step", failed.String())
}
