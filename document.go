package readtext

import (
	"context"
	"time"
)

// Document represents a stored extraction result.
type Document struct {
	ID           string    `json:"id"`
	SourceURL    string    `json:"sourceUrl"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ContentHash  string    `json:"contentHash"`
	NextPageLink string    `json:"nextPageLink"`
	PageCount    int       `json:"pageCount"`
	Pages        []string  `json:"pages,omitempty"`
	Impossible   bool      `json:"impossible"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// NewDocument builds a Document from an article.
func NewDocument(a *Article) *Document {
	return &Document{
		SourceURL:    a.URL,
		Title:        a.Title,
		Content:      a.Text,
		NextPageLink: a.NextPageLink,
		PageCount:    len(a.Pages),
		Pages:        a.Pages,
		Impossible:   a.Impossible,
	}
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.PageCount < 0 {
		return Errorf(EINVALID, "document page count must not be negative")
	}
	return nil
}

// DocumentWriter writes documents to storage.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, doc *Document) error
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID          *string `json:"id"`
	SourceURL   *string `json:"sourceUrl"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
