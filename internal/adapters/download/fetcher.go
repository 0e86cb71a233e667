// Package download fetches toolchain archives over HTTP.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// MaxRedirects bounds the requests of a single download: the MaxRedirects-th
// redirect aborts it, so at most MaxRedirects-1 redirects are followed.
const MaxRedirects = 10

// Fetcher implements ports.ArtifactFetcher.
type Fetcher struct {
	client *http.Client
	logger ports.Logger
}

// NewFetcher creates a Fetcher using a client that never follows redirects on
// its own; Fetch follows them explicitly.
func NewFetcher(logger ports.Logger) *Fetcher {
	return newFetcherWithClient(&http.Client{}, logger)
}

func newFetcherWithClient(client *http.Client, logger ports.Logger) *Fetcher {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Fetcher{client: &c, logger: logger}
}

// Fetch downloads rawURL into dest. The body is written to a temporary file in
// the same directory and renamed once complete.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	resp, err := f.follow(ctx, rawURL)
	if err != nil {
		return zerr.With(err, "url", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := writeAtomic(resp.Body, dest); err != nil {
		return zerr.With(zerr.With(err, "url", rawURL), "dest", dest)
	}
	return nil
}

// follow requests rawURL and follows redirects until a non-redirect response.
func (f *Fetcher) follow(ctx context.Context, rawURL string) (*http.Response, error) {
	current := rawURL

	for hop := 0; ; hop++ {
		if hop >= MaxRedirects {
			return nil, zerr.With(zerr.Wrap(domain.ErrTooManyRedirects, "download aborted"), "limit", MaxRedirects)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, http.NoBody)
		if err != nil {
			return nil, zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "invalid download request")
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "request failed")
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case isRedirect(resp.StatusCode):
			location := resp.Header.Get("Location")
			_ = resp.Body.Close()
			next, err := resolveLocation(req.URL, location)
			if err != nil {
				return nil, err
			}
			if f.logger != nil {
				f.logger.Trace("Redirected to " + next)
			}
			current = next
		default:
			_ = resp.Body.Close()
			return nil, zerr.With(
				zerr.Wrap(domain.ErrDownloadFailed, fmt.Sprintf("unexpected status %s", resp.Status)),
				"status", resp.StatusCode)
		}
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(base *url.URL, location string) (string, error) {
	if location == "" {
		return "", zerr.Wrap(domain.ErrDownloadFailed, "redirect without location")
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", zerr.With(
			zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "invalid redirect location"), "location", location)
	}
	return base.ResolveReference(ref).String(), nil
}

func writeAtomic(body io.Reader, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "failed to create download file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "failed to read response body")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "failed to write download file")
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return zerr.Wrap(errors.Join(domain.ErrDownloadFailed, err), "failed to move download into place")
	}
	return nil
}
