package ports

import (
	"context"

	"go.trai.ch/elixirpack/internal/core/domain"
)

// ArchiveExtractor unpacks downloaded archives.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type ArchiveExtractor interface {
	// Extract populates dest, which must exist, with the contents of archive.
	Extract(ctx context.Context, archive string, format domain.ArchiveFormat, dest string) error
}
