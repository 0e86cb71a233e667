package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/elixirpack/internal/ui/output"
	"go.trai.ch/elixirpack/internal/ui/style"
)

// PrettyHandler is a slog.Handler that renders records in the buildpack output
// convention: step headlines behind an arrow, details indented beneath them.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stdout
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	prefix, marker := style.Indent, ""
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		marker = style.ErrorMarker
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		marker = style.WarningMarker
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level >= slog.LevelInfo:
		prefix = style.Arrow
		color = termenv.RGBColor(string(style.Iris))
	case r.Level >= slog.LevelDebug:
		color = termenv.RGBColor(string(style.Slate))
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})

	lines := strings.Split(r.Message, "\n")
	if len(attrParts) > 0 {
		lines[0] += " " + strings.Join(attrParts, " ")
	}
	lines[0] = prefix + lines[0] + marker
	for i := 1; i < len(lines); i++ {
		lines[i] = style.Indent + lines[i]
	}

	text := strings.Join(lines, "\n")
	if color != nil {
		text = h.out.String(text).Foreground(color).String()
	}
	_, err := h.out.WriteString(text + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
