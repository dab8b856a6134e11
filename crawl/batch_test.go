package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/crawl"
	"github.com/fwojciec/readtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleReader(articles map[string]*readtext.Article) *mock.ArticleReader {
	return &mock.ArticleReader{
		ReadFn: func(_ context.Context, url string) (*readtext.Article, error) {
			a, ok := articles[url]
			if !ok {
				return nil, readtext.Errorf(readtext.EFETCH, "status 404 for %s", url)
			}
			return a, nil
		},
	}
}

func collectingWriter(docs *[]*readtext.Document) *mock.DocumentWriter {
	var mu sync.Mutex
	return &mock.DocumentWriter{
		CreateDocumentFn: func(_ context.Context, doc *readtext.Document) error {
			mu.Lock()
			defer mu.Unlock()
			*docs = append(*docs, doc)
			return nil
		},
	}
}

func TestBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves articles in input order", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/a": {URL: "https://example.com/a", Title: "A", Text: "Text of a.", Pages: []string{"https://example.com/a"}},
			"https://example.com/b": {URL: "https://example.com/b", Title: "B", Text: "Text of b.", Pages: []string{"https://example.com/b"}},
			"https://example.com/c": {URL: "https://example.com/c", Title: "C", Text: "Text of c.", Pages: []string{"https://example.com/c"}},
		}
		var docs []*readtext.Document
		b := &crawl.Batch{
			Reader:      articleReader(articles),
			Writers:     []readtext.DocumentWriter{collectingWriter(&docs)},
			Concurrency: 3,
		}

		result, err := b.Run(context.Background(), []string{
			"https://example.com/c",
			"https://example.com/a",
			"https://example.com/b",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Saved)
		assert.Equal(t, 30, result.Bytes)
		require.Len(t, docs, 3)
		assert.Equal(t, "C", docs[0].Title)
		assert.Equal(t, "A", docs[1].Title)
		assert.Equal(t, "B", docs[2].Title)
		assert.Equal(t, "Text of c.", docs[0].Content)
		assert.Equal(t, 1, docs[0].PageCount)
		assert.Equal(t, crawl.ComputeHash("Text of c."), docs[0].ContentHash)
		assert.False(t, docs[0].FetchedAt.IsZero())
	})

	t.Run("reads duplicate URLs once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		reads := make(map[string]int)
		b := &crawl.Batch{
			Reader: &mock.ArticleReader{
				ReadFn: func(_ context.Context, url string) (*readtext.Article, error) {
					mu.Lock()
					reads[url]++
					mu.Unlock()
					return &readtext.Article{URL: url}, nil
				},
			},
		}

		result, err := b.Run(context.Background(), []string{
			"https://example.com/a",
			"https://example.com/a/",
			"https://example.com/a#comments",
			"https://example.com/b",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 2, result.Duplicates)
		assert.Equal(t, map[string]int{"https://example.com/a": 1, "https://example.com/b": 1}, reads)
	})

	t.Run("counts failed and impossible articles", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/ok":     {URL: "https://example.com/ok", Text: "Fine."},
			"https://example.com/frames": {URL: "https://example.com/frames", Impossible: true},
		}
		var docs []*readtext.Document
		b := &crawl.Batch{
			Reader:  articleReader(articles),
			Writers: []readtext.DocumentWriter{collectingWriter(&docs)},
		}

		result, err := b.Run(context.Background(), []string{
			"https://example.com/ok",
			"https://example.com/missing",
			"https://example.com/frames",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Impossible)
		require.Len(t, docs, 2)
		assert.True(t, docs[1].Impossible)
	})

	t.Run("saves partial article read before an error", func(t *testing.T) {
		t.Parallel()

		var docs []*readtext.Document
		var events []crawl.ProgressEvent
		b := &crawl.Batch{
			Reader: &mock.ArticleReader{
				ReadFn: func(_ context.Context, url string) (*readtext.Article, error) {
					return &readtext.Article{URL: url, Text: "First page."}, errors.New("page 2: connection reset")
				},
			},
			Writers: []readtext.DocumentWriter{collectingWriter(&docs)},
		}

		result, err := b.Run(context.Background(), []string{"https://example.com/a"}, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		require.Len(t, docs, 1)
		require.Len(t, events, 3)
		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Error(t, events[1].Error)
	})

	t.Run("converts article HTML when a converter is set", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/a": {
				URL:     "https://example.com/a",
				Text:    "One. Two.",
				Content: []string{"<p>One.</p>", "<p>Two.</p>"},
			},
		}
		var docs []*readtext.Document
		b := &crawl.Batch{
			Reader: articleReader(articles),
			Converter: &mock.Converter{
				ConvertFn: func(html, pageURL string) (string, error) {
					assert.Equal(t, "https://example.com/a", pageURL)
					return "md:" + html, nil
				},
			},
			Writers: []readtext.DocumentWriter{collectingWriter(&docs)},
		}

		_, err := b.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "md:<p>One.</p>\n\nmd:<p>Two.</p>", docs[0].Content)
	})

	t.Run("writes each document to every writer", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/a": {URL: "https://example.com/a", Text: "Text."},
		}
		var first, second []*readtext.Document
		b := &crawl.Batch{
			Reader:  articleReader(articles),
			Writers: []readtext.DocumentWriter{collectingWriter(&first), collectingWriter(&second)},
		}

		result, err := b.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Len(t, first, 1)
		assert.Len(t, second, 1)
	})

	t.Run("counts write failures", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/a": {URL: "https://example.com/a", Text: "Text."},
		}
		b := &crawl.Batch{
			Reader: articleReader(articles),
			Writers: []readtext.DocumentWriter{&mock.DocumentWriter{
				CreateDocumentFn: func(_ context.Context, _ *readtext.Document) error {
					return errors.New("disk full")
				},
			}},
		}

		result, err := b.Run(context.Background(), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Saved)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		articles := map[string]*readtext.Article{
			"https://example.com/a": {URL: "https://example.com/a", Text: "Text."},
		}
		var events []crawl.ProgressEvent
		b := &crawl.Batch{Reader: articleReader(articles), Concurrency: 1}

		_, err := b.Run(context.Background(), []string{"https://example.com/a", "https://example.com/missing"}, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)

		var completed, failed int
		for _, e := range events[1:3] {
			switch e.Type {
			case crawl.ProgressCompleted:
				completed++
				assert.Equal(t, "https://example.com/a", e.URL)
			case crawl.ProgressFailed:
				failed++
				assert.Equal(t, "https://example.com/missing", e.URL)
				assert.Error(t, e.Error)
			}
		}
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, failed)
	})
}
