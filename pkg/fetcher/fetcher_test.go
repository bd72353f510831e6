package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, opts Options) *Fetcher {
	t.Helper()
	f, err := NewFetcher(opts)
	require.NoError(t, err)
	return f
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>listing</body></html>"))
	}))
	defer server.Close()

	f := newTestFetcher(t, Options{UserAgent: "test-agent"})
	res, err := f.Fetch(context.Background(), server.URL+"/homedetails/x/1_zpid/")
	require.NoError(t, err)

	assert.Equal(t, "<html><body>listing</body></html>", string(res.Body))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Equal(t, server.URL+"/homedetails/x/1_zpid/", res.FinalURL)
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc", c.Value)
		}
		_, _ = w.Write([]byte("moved"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := newTestFetcher(t, Options{})
	res, err := f.Fetch(context.Background(), server.URL+"/old")
	require.NoError(t, err)

	assert.Equal(t, "moved", string(res.Body))
	assert.Equal(t, server.URL+"/new", res.FinalURL)
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	f := newTestFetcher(t, Options{})
	res, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Nil(t, res)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	assert.Equal(t, server.URL, netErr.URL)
}

func TestFetch_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newTestFetcher(t, Options{})
	_, err := f.Fetch(context.Background(), server.URL)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusOK, netErr.StatusCode)
	assert.Contains(t, netErr.Error(), "empty response body")
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	f := newTestFetcher(t, Options{})
	_, err := f.Fetch(context.Background(), addr)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 0, netErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	f := newTestFetcher(t, Options{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), server.URL)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
}

func TestFetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(t, Options{})
	_, err := f.Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
