package download_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elixirpack/internal/adapters/download"
	"go.trai.ch/elixirpack/internal/core/domain"
)

func TestFetch_WritesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("archive bytes"))
	}))
	t.Cleanup(srv.Close)

	dest := filepath.Join(t.TempDir(), "otp.tar.gz")
	err := download.NewFetcherWithClient(srv.Client()).Fetch(context.Background(), srv.URL+"/otp.tar.gz", dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive bytes", string(got))
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop", http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("done"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dest := filepath.Join(t.TempDir(), "elixir.zip")
	require.NoError(t, download.NewFetcherWithClient(srv.Client()).Fetch(context.Background(), srv.URL+"/start", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "done", string(got))
}

func TestFetch_RedirectLimit(t *testing.T) {
	tests := []struct {
		hops    int
		wantErr bool
	}{
		{hops: download.MaxRedirects - 1},
		{hops: download.MaxRedirects, wantErr: true},
		{hops: download.MaxRedirects + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d hops", tt.hops), func(t *testing.T) {
			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				var n int
				_, _ = fmt.Sscanf(r.URL.Path, "/%d", &n)
				if n < tt.hops {
					http.Redirect(w, r, fmt.Sprintf("/%d", n+1), http.StatusFound)
					return
				}
				_, _ = w.Write([]byte("ok"))
			}))
			t.Cleanup(srv.Close)

			dest := filepath.Join(t.TempDir(), "archive")
			err := download.NewFetcherWithClient(srv.Client()).Fetch(context.Background(), srv.URL+"/0", dest)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, domain.ErrTooManyRedirects)
			assert.NoFileExists(t, dest)
			assert.Equal(t, int32(download.MaxRedirects), requests.Load())
		})
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dest := filepath.Join(dir, "archive")
	err := download.NewFetcherWithClient(srv.Client()).Fetch(context.Background(), srv.URL, dest)
	require.ErrorIs(t, err, domain.ErrDownloadFailed)
	assert.NoFileExists(t, dest)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temporary files are left behind")
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := download.NewFetcherWithClient(srv.Client()).Fetch(ctx, srv.URL, filepath.Join(t.TempDir(), "archive"))
	require.ErrorIs(t, err, domain.ErrDownloadFailed)
	require.ErrorIs(t, err, context.Canceled)
}
