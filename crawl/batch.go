package crawl

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of articles a Batch reads at once.
const DefaultConcurrency = 3

// falsePositiveRate is the acceptable false positive rate for input
// de-duplication.
const falsePositiveRate = 0.001

// Batch reads many articles concurrently and hands the results, in input
// order, to its writers.
type Batch struct {
	Reader readtext.ArticleReader

	// Converter turns the article HTML into Markdown for the stored
	// document. Optional; documents hold plain text without it.
	Converter readtext.Converter

	Writers     []readtext.DocumentWriter
	Concurrency int
}

// Result holds the outcome of a batch.
type Result struct {
	Saved      int
	Failed     int
	Duplicates int
	Impossible int
	Bytes      int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// readResult holds the outcome of reading a single URL.
type readResult struct {
	position int
	url      string
	article  *readtext.Article
	err      error
}

// Run reads every distinct URL in urls and writes one document per article.
// URLs differing only by fragment or trailing slash are read once. Each
// article gets its own Reader call, so pagination state is never shared.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	var result Result

	seen := bloom.NewFilter(uint(len(urls)), falsePositiveRate)
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.TestAndAdd(normalizeURL(u)) {
			result.Duplicates++
			continue
		}
		unique = append(unique, u)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan readResult, len(unique))
	var completed atomic.Int64
	total := len(unique)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range unique {
			g.Go(func() error {
				article, err := b.Reader.Read(gctx, u)
				resultCh <- readResult{position: i, url: u, article: article, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]readResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
			Error:     r.err,
		}
		if r.article == nil {
			event.Type = ProgressFailed
		}
		progress(event)
	}

	// Partially read articles are still saved.
	for _, r := range results {
		if r.article == nil {
			result.Failed++
			continue
		}
		if r.article.Impossible {
			result.Impossible++
		}

		doc, err := b.document(r.article)
		if err != nil {
			result.Failed++
			continue
		}
		if err := b.write(ctx, doc); err != nil {
			result.Failed++
			continue
		}

		result.Saved++
		result.Bytes += len(doc.Content)
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &result, ctx.Err()
}

func (b *Batch) document(a *readtext.Article) (*readtext.Document, error) {
	doc := readtext.NewDocument(a)
	if b.Converter != nil && len(a.Content) > 0 {
		var parts []string
		for _, content := range a.Content {
			md, err := b.Converter.Convert(content, a.URL)
			if err != nil {
				return nil, fmt.Errorf("convert %s: %w", a.URL, err)
			}
			parts = append(parts, md)
		}
		doc.Content = strings.Join(parts, "\n\n")
	}
	doc.ContentHash = ComputeHash(doc.Content)
	doc.FetchedAt = time.Now().UTC()
	return doc, nil
}

func (b *Batch) write(ctx context.Context, doc *readtext.Document) error {
	for _, w := range b.Writers {
		if err := w.CreateDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// normalizeURL drops the fragment and trailing slash.
func normalizeURL(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	return strings.TrimSuffix(rawURL, "/")
}
