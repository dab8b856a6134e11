package mock

import (
	"context"

	"github.com/fwojciec/readtext"
)

var _ readtext.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of readtext.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *readtext.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*readtext.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter readtext.DocumentFilter) ([]*readtext.Document, error)
	DeleteDocumentFn   func(ctx context.Context, id string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *readtext.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*readtext.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter readtext.DocumentFilter) ([]*readtext.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}
