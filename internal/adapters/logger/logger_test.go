package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elixirpack/internal/adapters/logger"
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info headline",
			log:        func(l *logger.Logger) { l.Info("Fetching OTP 26.2.1") },
			goldenName: "info_basic",
		},
		{
			name:       "multiline info",
			log:        func(l *logger.Logger) { l.Info("line1\nline2") },
			goldenName: "info_multiline",
		},
		{
			name:       "debug detail",
			log:        func(l *logger.Logger) { l.Debug("Using cached OTP") },
			goldenName: "debug_basic",
		},
		{
			name:       "warning",
			log:        func(l *logger.Logger) { l.Warn("Using default config") },
			goldenName: "warn_basic",
		},
		{
			name:       "trace hidden by default",
			log:        func(l *logger.Logger) { l.Trace("==> compiling") },
			goldenName: "trace_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetLevel(logger.LevelTrace)
	lg.Trace("==> compiling")
	assert.Equal(t, "       ==> compiling\n", buf.String())

	buf.Reset()
	lg.SetLevel(slog.LevelInfo)
	lg.Debug("hidden")
	lg.Info("shown")
	assert.Equal(t, "-----> shown\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("something broke"),
			goldenName: "error_standard",
		},
		{
			name: "wrapped chain with metadata",
			err: zerr.With(
				zerr.Wrap(zerr.Wrap(domain.ErrMissingVersions, "resolve configuration"), "configure"),
				"source", "app",
			),
			goldenName: "error_chain",
		},
		{
			name:       "nil error",
			err:        nil,
			goldenName: "error_nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("Compiling")
	lg.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"Compiling"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"boom"`)
}
