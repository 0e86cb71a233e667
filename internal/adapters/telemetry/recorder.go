// Package telemetry records build steps as progrock vertices.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
)

// Recorder implements ports.Telemetry. Every status update goes to a Journal
// and to the additional writers given at construction.
type Recorder struct {
	journal *Journal
	w       progrock.Writer
	rec     *progrock.Recorder

	mu  sync.Mutex
	seq int
}

// New creates a Recorder that only keeps the journal.
func New() *Recorder {
	return NewRecorder()
}

// NewRecorder creates a Recorder that also writes status updates to each of writers.
func NewRecorder(writers ...progrock.Writer) *Recorder {
	journal := NewJournal()
	w := progrock.MultiWriter(append([]progrock.Writer{journal}, writers...))
	return &Recorder{
		journal: journal,
		w:       w,
		rec:     progrock.NewRecorder(w),
	}
}

// Record starts a vertex. Every call gets its own digest, so a step that runs
// twice in one build shows up twice.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	r.seq++
	d := digest.FromString(fmt.Sprintf("%d/%s", r.seq, name))
	r.mu.Unlock()

	v := &Vertex{vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, v), v
}

// Summary reports every vertex recorded so far, in start order.
func (r *Recorder) Summary() []domain.StepReport {
	return r.journal.Steps()
}

// Close closes every writer.
func (r *Recorder) Close() error {
	return r.w.Close()
}
