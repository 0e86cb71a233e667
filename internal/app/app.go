// Package app implements the application layer of the Elixir buildpack.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.trai.ch/elixirpack/internal/adapters/logger" //nolint:depguard // log levels are owned by the logger adapter
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/elixirpack/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Builder runs the compile phase.
type Builder interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// App exposes the buildpack phases: detect, compile and release.
type App struct {
	builder   Builder
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance.
func New(builder Builder, telemetry ports.Telemetry, log ports.Logger) *App {
	return &App{
		builder:   builder,
		telemetry: telemetry,
		logger:    log,
	}
}

// LogOptions selects how much is logged and in which format.
type LogOptions struct {
	// Verbose also shows the output of every command.
	Verbose bool
	// Quiet only shows step headlines, warnings and errors.
	Quiet bool
	JSON  bool
}

// configurableLogger is implemented by loggers whose level and format can change.
type configurableLogger interface {
	SetLevel(level slog.Level)
	SetJSON(enable bool)
}

// SetLogOptions applies opts to the logger. Verbose wins over Quiet.
func (a *App) SetLogOptions(opts LogOptions) {
	l, ok := a.logger.(configurableLogger)
	if !ok {
		return
	}

	switch {
	case opts.Verbose:
		l.SetLevel(logger.LevelTrace)
	case opts.Quiet:
		l.SetLevel(slog.LevelInfo)
	default:
		l.SetLevel(slog.LevelDebug)
	}
	l.SetJSON(opts.JSON)
}

// Detect prints the framework name when appDir holds a Mix project.
func (a *App) Detect(_ context.Context, appDir string, out io.Writer) error {
	if err := pipeline.Detect(appDir); err != nil {
		return err
	}
	_, err := io.WriteString(out, "Elixir\n")
	return err
}

// CompileOptions are the directories handed over by the platform.
type CompileOptions struct {
	BuildDir   string
	CacheDir   string
	EnvDir     string
	ProcessEnv domain.Environment
	// Stdout receives the output of a failed command.
	Stdout io.Writer
}

// Compile builds the application in place.
func (a *App) Compile(ctx context.Context, opts CompileOptions) (err error) {
	defer func() {
		err = errors.Join(err, a.telemetry.Close())
	}()

	_, err = a.builder.Run(ctx, pipeline.Request{
		Layout:     domain.NewLayout(opts.BuildDir, opts.CacheDir, opts.EnvDir),
		ProcessEnv: opts.ProcessEnv,
		Stdout:     opts.Stdout,
	})
	a.logSummary()
	return err
}

// logSummary logs one line per recorded step.
func (a *App) logSummary() {
	reports := a.telemetry.Summary()
	if len(reports) == 0 {
		return
	}
	a.logger.Debug("Build steps:")
	for _, r := range reports {
		a.logger.Debug("  " + r.String())
	}
}

// Release writes the process metadata of the application.
func (a *App) Release(out io.Writer) error {
	if _, err := io.WriteString(out, "---\n"); err != nil {
		return zerr.Wrap(err, "failed to write release document")
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(domain.DefaultRelease()); err != nil {
		return zerr.Wrap(err, "failed to encode release document")
	}
	return enc.Close()
}
