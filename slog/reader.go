package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readtext"
)

// Ensure LoggingReader implements readtext.ArticleReader.
var _ readtext.ArticleReader = (*LoggingReader)(nil)

// LoggingReader wraps an ArticleReader with logging.
type LoggingReader struct {
	next   readtext.ArticleReader
	logger *slog.Logger
}

// NewLoggingReader creates a new LoggingReader.
func NewLoggingReader(next readtext.ArticleReader, logger *slog.Logger) *LoggingReader {
	return &LoggingReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader and logs the operation.
func (r *LoggingReader) Read(ctx context.Context, url string) (article *readtext.Article, err error) {
	defer func(begin time.Time) {
		var pages, chars int
		var impossible bool
		if article != nil {
			pages = len(article.Pages)
			chars = len(article.Text)
			impossible = article.Impossible
		}
		r.logger.Info("read article",
			"url", url,
			"pages", pages,
			"chars", chars,
			"impossible", impossible,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(ctx, url)
}
