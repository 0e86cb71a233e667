package ports

import "context"

// ArtifactFetcher downloads remote artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type ArtifactFetcher interface {
	// Fetch stores the resource at url in dest. dest is only created once the
	// whole body has been received.
	Fetch(ctx context.Context, url, dest string) error
}
