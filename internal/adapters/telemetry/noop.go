package telemetry

import (
	"context"
	"io"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
)

// Noop is a ports.Telemetry that records nothing.
type Noop struct{}

// NewNoop creates a Noop telemetry.
func NewNoop() Noop {
	return Noop{}
}

// Record returns a vertex that discards everything.
func (Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	v := noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Summary reports nothing.
func (Noop) Summary() []domain.StepReport { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Complete(error)    {}
func (noopVertex) Cached()           {}
