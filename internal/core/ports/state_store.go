package ports

import "go.trai.ch/elixirpack/internal/core/domain"

// StateStore persists the record of the last successful build.
//
//go:generate go run go.uber.org/mock/mockgen -source=state_store.go -destination=mocks/mock_state_store.go -package=mocks
type StateStore interface {
	// Load returns the recorded state. A missing record yields the zero CacheState.
	Load(path string) (domain.CacheState, error)

	// Save overwrites the record.
	Save(path string, state domain.CacheState) error
}
