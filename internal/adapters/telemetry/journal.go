package telemetry

import (
	"bytes"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/elixirpack/internal/core/domain"
)

// Journal is a progrock.Writer keeping the latest state of every vertex in the
// order they started. Log data is counted, not retained.
type Journal struct {
	mu       sync.Mutex
	order    []string
	vertices map[string]*progrock.Vertex
	newlines map[string]int
	// partial tracks vertices whose output does not end in a newline yet.
	partial map[string]bool
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal {
	return &Journal{
		vertices: map[string]*progrock.Vertex{},
		newlines: map[string]int{},
		partial:  map[string]bool{},
	}
}

// WriteStatus records the vertex updates and output of status.
func (j *Journal) WriteStatus(status *progrock.StatusUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, v := range status.GetVertexes() {
		if _, seen := j.vertices[v.GetId()]; !seen {
			j.order = append(j.order, v.GetId())
		}
		j.vertices[v.GetId()] = v
	}

	for _, l := range status.GetLogs() {
		data := l.GetData()
		if len(data) == 0 {
			continue
		}
		id := l.GetVertex()
		j.newlines[id] += bytes.Count(data, []byte("\n"))
		j.partial[id] = data[len(data)-1] != '\n'
	}
	return nil
}

// Close implements progrock.Writer.
func (j *Journal) Close() error {
	return nil
}

// Steps reports every vertex seen so far.
func (j *Journal) Steps() []domain.StepReport {
	j.mu.Lock()
	defer j.mu.Unlock()

	reports := make([]domain.StepReport, 0, len(j.order))
	for _, id := range j.order {
		v := j.vertices[id]
		lines := j.newlines[id]
		if j.partial[id] {
			lines++
		}
		reports = append(reports, domain.StepReport{
			Name:        v.GetName(),
			Outcome:     outcome(v),
			Duration:    v.Duration(),
			OutputLines: lines,
		})
	}
	return reports
}

func outcome(v *progrock.Vertex) domain.Outcome {
	switch {
	case v.Error != nil:
		return domain.OutcomeFailed
	case v.GetCached():
		return domain.OutcomeCached
	case v.Completed != nil:
		return domain.OutcomeDone
	default:
		return domain.OutcomeRunning
	}
}
