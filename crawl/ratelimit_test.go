package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first fetch of a host is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "https://news.example.com/a"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("pages of one host share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "https://news.example.com/a"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "http://NEWS.example.com:8080/b?page=2"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "https://news.example.com/a"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "https://blog.example.org/a"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("pages without a host are not delayed", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "story/page1.html"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "story/page2.html"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("rejects an unparsable page URL", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(10)

		err := limiter.Wait(context.Background(), "http://[::1")

		assert.Equal(t, readtext.EINVALID, readtext.ErrorCode(err))
	})

	t.Run("returns error when context expires while waiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "https://news.example.com/a"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "https://news.example.com/b"))
	})
}
