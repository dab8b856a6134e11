package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/crawl"
	"github.com/fwojciec/readtext/goquery"
	"github.com/fwojciec/readtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sentence = "The quick brown fox jumps over the lazy dog, and then it runs, far away, into the deep forest. "

func storyPage(label string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>A Long Story Told Over Three Pages</title></head><body>")
	b.WriteString("<div><p>" + label + " " + strings.Repeat(sentence, 3) + "</p></div>")
	for _, n := range links {
		b.WriteString(`<a href="/story/page/` + n + `" class="pagination">` + n + `</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func pageFetcher(pages map[string]string, fetched *[]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			*fetched = append(*fetched, url)
			html, ok := pages[url]
			if !ok {
				return "", readtext.Errorf(readtext.EFETCH, "status 404 for %s", url)
			}
			return html, nil
		},
	}
}

var storyPages = map[string]string{
	"https://example.com/story/page/1": storyPage("Chapter one begins.", "2"),
	"https://example.com/story/page/2": storyPage("Chapter two follows.", "1", "3"),
	"https://example.com/story/page/3": storyPage("Chapter three ends.", "1", "2"),
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	t.Run("reads only the first page by default", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		r := &crawl.Reader{
			Fetcher:   pageFetcher(storyPages, &fetched),
			Extractor: goquery.NewExtractor(),
		}

		article, err := r.Read(context.Background(), "https://example.com/story/page/1")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/story/page/1"}, fetched)
		assert.Equal(t, "A Long Story Told Over Three Pages", article.Title)
		assert.Equal(t, "https://example.com/story/page/2", article.NextPageLink)
		assert.Contains(t, article.Text, "Chapter one begins.")
		assert.NotContains(t, article.Text, "Chapter two")
		assert.Equal(t, article.Map.Text(), article.Text)
	})

	t.Run("reassembles a paginated article", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		r := &crawl.Reader{
			Fetcher:      pageFetcher(storyPages, &fetched),
			Extractor:    goquery.NewExtractor(),
			ReadAllPages: true,
		}

		article, err := r.Read(context.Background(), "https://example.com/story/page/1")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/story/page/1",
			"https://example.com/story/page/2",
			"https://example.com/story/page/3",
		}, fetched)
		assert.Equal(t, fetched, article.Pages)
		assert.Len(t, article.Content, 3)

		one := strings.Index(article.Text, "Chapter one begins.")
		two := strings.Index(article.Text, "Chapter two follows.")
		three := strings.Index(article.Text, "Chapter three ends.")
		assert.True(t, one >= 0 && one < two && two < three, "pages out of order: %d %d %d", one, two, three)

		// Every range still points at its own text.
		for _, rng := range article.Map.Ranges() {
			if rng.Text != nil {
				assert.Equal(t, rng.Text.Data, article.Text[rng.Start:rng.End])
			}
		}
	})

	t.Run("stops at MaxPages", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		r := &crawl.Reader{
			Fetcher:      pageFetcher(storyPages, &fetched),
			Extractor:    goquery.NewExtractor(),
			ReadAllPages: true,
			MaxPages:     2,
		}

		article, err := r.Read(context.Background(), "https://example.com/story/page/1")

		require.NoError(t, err)
		assert.Len(t, fetched, 2)
		assert.Contains(t, article.Text, "Chapter two follows.")
		assert.NotContains(t, article.Text, "Chapter three")
	})

	t.Run("returns error when first page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		r := &crawl.Reader{
			Fetcher:   pageFetcher(storyPages, &fetched),
			Extractor: goquery.NewExtractor(),
		}

		article, err := r.Read(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		assert.Nil(t, article)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
	})

	t.Run("keeps text read before a failing page", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com/story/page/1": storyPages["https://example.com/story/page/1"],
		}
		var fetched []string
		r := &crawl.Reader{
			Fetcher:      pageFetcher(pages, &fetched),
			Extractor:    goquery.NewExtractor(),
			ReadAllPages: true,
		}

		article, err := r.Read(context.Background(), "https://example.com/story/page/1")

		require.Error(t, err)
		assert.Equal(t, readtext.EFETCH, readtext.ErrorCode(err))
		require.NotNil(t, article)
		assert.Contains(t, article.Text, "Chapter one begins.")
		assert.Equal(t, []string{"https://example.com/story/page/1"}, article.Pages)
	})

	t.Run("impossible first page has no text", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Reader{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return `<html><head><title>Framed Site Home Page</title></head><frameset><frame src="a.html"></frameset></html>`, nil
				},
			},
			Extractor:    goquery.NewExtractor(),
			ReadAllPages: true,
		}

		article, err := r.Read(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.True(t, article.Impossible)
		assert.Nil(t, article.Map)
		assert.Empty(t, article.Text)
	})

	t.Run("impossible later page ends the chain", func(t *testing.T) {
		t.Parallel()

		calls := 0
		r := &crawl.Reader{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return url, nil
				},
			},
			Extractor: &mock.PageExtractor{
				ExtractPageFn: func(_, pageURL string, _ readtext.Visited) (*readtext.Page, error) {
					calls++
					if calls == 1 {
						return selectedPage(t, pageURL, "First page text.", "https://example.com/2"), nil
					}
					return &readtext.Page{URL: pageURL, Impossible: true, NextPageLink: "https://example.com/3"}, nil
				},
			},
			ReadAllPages: true,
		}

		article, err := r.Read(context.Background(), "https://example.com/1")

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.False(t, article.Impossible)
		assert.Equal(t, "First page text.", strings.TrimSpace(article.Text))
	})

	t.Run("later page without an article adds no text", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Reader{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return url, nil
				},
			},
			Extractor: &mock.PageExtractor{
				ExtractPageFn: func(_, pageURL string, _ readtext.Visited) (*readtext.Page, error) {
					switch pageURL {
					case "https://example.com/1":
						return selectedPage(t, pageURL, "First page text.", "https://example.com/2"), nil
					case "https://example.com/2":
						page := selectedPage(t, pageURL, "Navigation only.", "https://example.com/3")
						page.Selected = false
						return page, nil
					default:
						return selectedPage(t, pageURL, "Third page text.", ""), nil
					}
				},
			},
			ReadAllPages: true,
		}

		article, err := r.Read(context.Background(), "https://example.com/1")

		require.NoError(t, err)
		assert.Equal(t, "First page text. Third page text.", strings.Join(strings.Fields(article.Text), " "))
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/3"}, article.Pages)
	})

	t.Run("shares one visited set across pages", func(t *testing.T) {
		t.Parallel()

		var sets []readtext.Visited
		r := &crawl.Reader{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					return url, nil
				},
			},
			Extractor: &mock.PageExtractor{
				ExtractPageFn: func(_, pageURL string, visited readtext.Visited) (*readtext.Page, error) {
					sets = append(sets, visited)
					visited.Add(pageURL)
					next := ""
					if len(sets) < 3 {
						next = pageURL + "x"
					}
					return selectedPage(t, pageURL, "Some text.", next), nil
				},
			},
			ReadAllPages: true,
		}

		_, err := r.Read(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		require.Len(t, sets, 3)
		assert.True(t, sets[2].Has("https://example.com/a"))
		assert.True(t, sets[2].Has("https://example.com/ax"))
	})

	t.Run("waits on the rate limiter for each page", func(t *testing.T) {
		t.Parallel()

		var waited []string
		var fetched []string
		r := &crawl.Reader{
			Fetcher:   pageFetcher(storyPages, &fetched),
			Extractor: goquery.NewExtractor(),
			RateLimiter: &mock.PageLimiter{
				WaitFn: func(_ context.Context, pageURL string) error {
					waited = append(waited, pageURL)
					return nil
				},
			},
			ReadAllPages: true,
		}

		_, err := r.Read(context.Background(), "https://example.com/story/page/1")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/story/page/1",
			"https://example.com/story/page/2",
			"https://example.com/story/page/3",
		}, waited)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := &crawl.Reader{
			Fetcher:   &mock.Fetcher{},
			Extractor: &mock.PageExtractor{},
		}

		article, err := r.Read(ctx, "https://example.com/story")

		assert.Nil(t, article)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

// selectedPage builds a page whose text map holds text as one paragraph.
func selectedPage(t *testing.T, pageURL, text, next string) *readtext.Page {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<p>" + text + "</p>"))
	require.NoError(t, err)
	return &readtext.Page{
		URL:          pageURL,
		Title:        "Title",
		Content:      "<p>" + text + "</p>",
		Map:          readtext.NewTextMap(doc, goquery.Classify),
		NextPageLink: next,
		Selected:     true,
	}
}
