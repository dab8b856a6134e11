package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readtext"
)

// Ensure LoggingDocumentWriter implements readtext.DocumentWriter.
var _ readtext.DocumentWriter = (*LoggingDocumentWriter)(nil)

// LoggingDocumentWriter wraps a DocumentWriter with debug logging.
type LoggingDocumentWriter struct {
	next   readtext.DocumentWriter
	name   string
	logger *slog.Logger
}

// NewLoggingDocumentWriter creates a new LoggingDocumentWriter. The name
// identifies the destination in log records.
func NewLoggingDocumentWriter(next readtext.DocumentWriter, name string, logger *slog.Logger) *LoggingDocumentWriter {
	return &LoggingDocumentWriter{next: next, name: name, logger: logger}
}

// CreateDocument delegates to the wrapped writer and logs the operation.
func (w *LoggingDocumentWriter) CreateDocument(ctx context.Context, doc *readtext.Document) (err error) {
	defer func(begin time.Time) {
		w.logger.Debug("write document",
			"dest", w.name,
			"url", doc.SourceURL,
			"bytes", len(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.CreateDocument(ctx, doc)
}
