package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/elixirpack/internal/adapters/logger"
)

func TestPrettyHandler_Handle(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		attrs []slog.Attr
		want  string
	}{
		{
			name:  "info gets an arrow",
			level: slog.LevelInfo,
			msg:   "Installing Elixir",
			want:  "-----> Installing Elixir\n",
		},
		{
			name:  "error gets a marker",
			level: slog.LevelError,
			msg:   "Build failed",
			want:  "       Build failed <----------- Error!\n",
		},
		{
			name:  "attributes follow the message",
			level: slog.LevelDebug,
			msg:   "Downloading",
			attrs: []slog.Attr{slog.String("url", "https://repo.hex.pm"), slog.Int("attempt", 1)},
			want:  "       Downloading url=https://repo.hex.pm attempt=1\n",
		},
		{
			name:  "grouped attributes",
			level: slog.LevelInfo,
			msg:   "Configured",
			attrs: []slog.Attr{slog.Group("cfg", slog.String("stack", "heroku-22"))},
			want:  "-----> Configured cfg=[stack=heroku-22]\n",
		},
		{
			name:  "below the handler level",
			level: slog.LevelDebug - 4,
			msg:   "hidden",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			slog.New(handler.WithAttrs(tt.attrs)).Log(t.Context(), tt.level, tt.msg)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil).WithGroup("step").WithAttrs([]slog.Attr{slog.String("name", "fetch")})
	slog.New(handler).Info("Running")

	assert.Equal(t, "-----> Running step.name=fetch\n", buf.String())
}
