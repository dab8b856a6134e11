// Package crawl reads articles page by page and runs batches of reads.
package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/readtext"
)

// DefaultMaxPages bounds the pages read for one article.
const DefaultMaxPages = 50

var _ readtext.ArticleReader = (*Reader)(nil)

// Reader implements readtext.ArticleReader by fetching a page, extracting
// its article and, when ReadAllPages is set, following next-page links.
type Reader struct {
	Fetcher   readtext.Fetcher
	Extractor readtext.PageExtractor

	// RateLimiter spaces fetches per host. Optional.
	RateLimiter readtext.PageLimiter

	// ReadAllPages follows next-page links and appends their text.
	ReadAllPages bool

	// MaxPages bounds the pages fetched per article. Zero means
	// DefaultMaxPages.
	MaxPages int
}

// Read reads the article starting at pageURL.
//
// A fetch failure on the first page returns the error alone. A failure on a
// later page returns the article read so far together with the error.
func (r *Reader) Read(ctx context.Context, pageURL string) (*readtext.Article, error) {
	maxPages := r.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	visited := readtext.NewVisited()
	var article *readtext.Article

	next := pageURL
	for fetched := 0; next != "" && fetched < maxPages; fetched++ {
		page, err := r.readPage(ctx, next, visited)
		if err != nil {
			if article == nil {
				return nil, err
			}
			return article, err
		}

		if article == nil {
			article = newArticle(pageURL, page)
		} else {
			if page.Impossible {
				break
			}
			appendPage(article, page)
		}

		if !r.ReadAllPages || page.Impossible {
			break
		}
		next = page.NextPageLink
	}

	return article, nil
}

func (r *Reader) readPage(ctx context.Context, pageURL string, visited readtext.Visited) (*readtext.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.RateLimiter != nil {
		if err := r.RateLimiter.Wait(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	html, err := r.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	page, err := r.Extractor.ExtractPage(html, pageURL, visited)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pageURL, err)
	}
	return page, nil
}

func newArticle(pageURL string, page *readtext.Page) *readtext.Article {
	a := &readtext.Article{
		URL:          pageURL,
		Title:        page.Title,
		NextPageLink: page.NextPageLink,
		Impossible:   page.Impossible,
	}
	if page.Impossible || page.Map == nil {
		return a
	}
	a.Map = page.Map
	a.Text = page.Map.Text()
	a.Pages = []string{page.URL}
	if page.Selected {
		a.Content = []string{page.Content}
	}
	return a
}

// appendPage adds the text of a later page. Pages without a selected
// article contribute nothing.
func appendPage(a *readtext.Article, page *readtext.Page) {
	if !page.Selected || page.Map == nil {
		return
	}
	if a.Map == nil {
		a.Map = page.Map
	} else {
		a.Map.Append(page.Map)
	}
	a.Text = a.Map.Text()
	a.Pages = append(a.Pages, page.URL)
	a.Content = append(a.Content, page.Content)
}
