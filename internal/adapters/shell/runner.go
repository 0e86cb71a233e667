// Package shell runs external commands for the build pipeline.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a Runner that forwards command output to logger at trace level.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the command and waits for it to finish. Stdout and stderr are
// captured into a single buffer in the order they were written.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	env := cmd.Env
	if env.Len() == 0 {
		env = domain.ParseEnviron(os.Environ())
	}
	environ := env.Environ()

	executable := cmd.Name
	if !strings.ContainsRune(cmd.Name, filepath.Separator) {
		if lp, err := lookPath(cmd.Name, env.Get("PATH")); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // commands come from the build configuration
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = environ

	var combined bytes.Buffer
	logger := r.logger
	if cmd.Quiet {
		logger = nil
	}
	logw := &logWriter{logger: logger}
	// A single writer for both streams keeps exec from writing concurrently.
	out := io.MultiWriter(&combined, logw)
	c.Stdout = out
	c.Stderr = out

	err := c.Run()
	_ = logw.Close()

	result := domain.CommandResult{Output: combined.Bytes()}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	return result, &domain.CommandFailure{
		Command:  cmd.String(),
		ExitCode: result.ExitCode,
		Output:   result.Output,
		Cause:    err,
	}
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	if w.logger == nil {
		return len(p), nil
	}

	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	w.logger.Trace(strings.TrimSuffix(string(line), "\r"))
}

// lookPath searches for an executable in the directories of the given PATH value,
// so commands resolve against the build environment rather than our own.
func lookPath(file, path string) (string, error) {
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
