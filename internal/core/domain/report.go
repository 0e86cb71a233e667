package domain

import (
	"fmt"
	"time"
)

// Outcome is how a recorded unit of work ended.
type Outcome string

const (
	// OutcomeDone is a unit of work that completed.
	OutcomeDone Outcome = "done"
	// OutcomeCached is a unit of work satisfied by the cache.
	OutcomeCached Outcome = "cached"
	// OutcomeFailed is a unit of work that returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeRunning is a unit of work that never completed.
	OutcomeRunning Outcome = "running"
)

// StepReport summarizes one recorded unit of work.
type StepReport struct {
	Name     string
	Outcome  Outcome
	Duration time.Duration
	// OutputLines counts the lines of command output written to the unit.
	OutputLines int
}

// String renders the report as a single log line.
func (r StepReport) String() string {
	line := fmt.Sprintf("%s: %s in %s", r.Name, r.Outcome, r.Duration.Round(time.Millisecond))
	if r.OutputLines > 0 {
		line += fmt.Sprintf(" (%d lines of output)", r.OutputLines)
	}
	return line
}
