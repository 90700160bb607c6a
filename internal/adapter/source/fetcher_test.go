package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(timeout time.Duration) *Fetcher {
	return NewFetcher(timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetcher_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ARTCCData.csv")
	require.NoError(t, os.WriteFile(path, []byte("IDENT\nZAU\n"), 0o600))

	data, err := testFetcher(time.Second).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "IDENT\nZAU\n", string(data))
}

func TestFetcher_MissingFile(t *testing.T) {
	_, err := testFetcher(time.Second).Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/ARTCCs.geojson", r.URL.Path)
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	data, err := testFetcher(time.Second).Fetch(context.Background(), srv.URL+"/data/ARTCCs.geojson")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such file"))
	}))
	defer srv.Close()

	_, err := testFetcher(time.Second).Fetch(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such file")
}

func TestFetcher_HTTPTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testFetcher(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testFetcher(time.Second).Fetch(ctx, "data/ARTCCData.csv")
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("https://example.com/a.csv"))
	assert.True(t, isRemote("HTTP://example.com/a.csv"))
	assert.False(t, isRemote("data/a.csv"))
	assert.False(t, isRemote("/abs/a.csv"))
	assert.False(t, isRemote(`C:\data\a.csv`))
}
