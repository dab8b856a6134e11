package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/readtext"
	readtexthttp "github.com/fwojciec/readtext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := readtexthttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("decodes page declared charset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<meta charset=\"windows-1252\"><p>na\xefve caf\xe9</p>"))
		}))
		defer server.Close()

		html, err := readtexthttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "<p>naïve café</p>")
	})

	t.Run("server charset applies only when respected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<meta charset=\"utf-8\"><p>café</p>"))
		}))
		defer server.Close()

		detected, err := readtexthttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, detected, "café")

		respected, err := readtexthttp.NewFetcher(readtexthttp.WithRespectServerEncoding(true)).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, respected, "cafÃ©")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := readtexthttp.NewFetcher(readtexthttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := readtexthttp.NewFetcher().Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns fetch error for non-200 status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		_, err := readtexthttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
		assert.Contains(t, readtext.ErrorMessage(err), "404")
	})

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("<p>finally</p>"))
		}))
		defer server.Close()

		fetcher := readtexthttp.NewFetcher(readtexthttp.WithRetryDelays([]time.Duration{0, 0, 0}))

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>finally</p>", html)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		fetcher := readtexthttp.NewFetcher(readtexthttp.WithRetryDelays([]time.Duration{0, 0}))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusGone)
		}))
		defer server.Close()

		fetcher := readtexthttp.NewFetcher(readtexthttp.WithRetryDelays([]time.Duration{0, 0}))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("sends a user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
		}))
		defer server.Close()

		_, err := readtexthttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, <-agents, "readtext")
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, readtexthttp.DefaultRetryDelays())
}
