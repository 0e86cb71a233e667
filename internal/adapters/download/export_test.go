package download

import "net/http"

// NewFetcherWithClient exposes the client constructor to tests.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return newFetcherWithClient(client, nil)
}
