package ports

import (
	"context"

	"go.trai.ch/elixirpack/internal/core/domain"
)

// CommandRunner runs external programs and captures their combined output.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes cmd and waits for it to finish.
	//
	// A non-zero exit status or a failure to start is reported as a
	// *domain.CommandFailure carrying the captured output.
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
}
