// Package goquery implements article extraction over goquery documents.
//
// The extractor prepares a page, scores its paragraph-like elements to find
// the article root, merges related siblings, cleans the result and flattens
// it into a readtext.TextMap. It also scores the page's links to detect the
// next page of a paginated article.
package goquery

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readtext"
)

var _ readtext.PageExtractor = (*Extractor)(nil)

// Extractor implements readtext.PageExtractor.
type Extractor struct {
	// Logger receives debug traces of candidate scores and retries.
	// Optional.
	Logger *slog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPage selects and flattens the article of one HTML document.
//
// Frameset documents and markup that cannot be parsed produce an Impossible
// page rather than an error. When no article can be selected, the text of
// the whole body is returned with Selected set to false.
func (e *Extractor) ExtractPage(src string, pageURL string, visited readtext.Visited) (*readtext.Page, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if visited == nil {
		visited = readtext.NewVisited()
	}

	page := &readtext.Page{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		logger.Debug("unparseable page", "url", pageURL, "error", err)
		page.Impossible = true
		return page, nil
	}

	removeScripts(doc)
	noscriptToDiv(doc)
	body := ensureBody(doc)
	page.Title = articleTitle(doc)

	if hasFrames(src) {
		logger.Debug("frames not supported", "url", pageURL)
		page.Impossible = true
		return page, nil
	}

	visited.Add(pageURL)
	page.NextPageLink = findNextPageLink(body, pageURL, visited)

	prepDocument(doc, body)

	g := newGrabber(logger)
	article := g.grab(body)
	if article == nil {
		logger.Debug("no article selected", "url", pageURL)
		page.Map = readtext.NewTextMap(body, Classify)
		return page, nil
	}

	content, err := goquery.OuterHtml(selectionOf(article))
	if err != nil {
		return nil, readtext.Errorf(readtext.EINTERNAL, "failed to render article: %v", err)
	}

	page.Selected = true
	page.Content = content
	page.Map = readtext.NewTextMap(body, classifyInline(g.inline))
	return page, nil
}
