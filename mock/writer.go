package mock

import (
	"context"

	"github.com/fwojciec/readtext"
)

var _ readtext.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of readtext.DocumentWriter.
type DocumentWriter struct {
	CreateDocumentFn func(ctx context.Context, doc *readtext.Document) error
}

func (w *DocumentWriter) CreateDocument(ctx context.Context, doc *readtext.Document) error {
	return w.CreateDocumentFn(ctx, doc)
}
