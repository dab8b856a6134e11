package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/readtext"
)

// Ensure LoggingExtractor implements readtext.PageExtractor.
var _ readtext.PageExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a PageExtractor with debug logging.
type LoggingExtractor struct {
	next   readtext.PageExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next readtext.PageExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractPage delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) ExtractPage(html, pageURL string, visited readtext.Visited) (page *readtext.Page, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL, "duration", time.Since(begin), "err", err}
		if page != nil {
			chars := 0
			if page.Map != nil {
				chars = page.Map.Len()
			}
			attrs = append(attrs,
				"title", page.Title,
				"selected", page.Selected,
				"impossible", page.Impossible,
				"next", page.NextPageLink,
				"chars", chars,
			)
		}
		e.logger.Debug("extract page", attrs...)
	}(time.Now())
	return e.next.ExtractPage(html, pageURL, visited)
}
