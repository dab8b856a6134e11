package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/readtext"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ readtext.DocumentService = (*DocumentService)(nil)

// DocumentService implements readtext.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes the xxhash of content as a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

const documentColumns = "id, source_url, title, content, content_hash, next_page_link, page_count, impossible, fetched_at"

// CreateDocument stores a document with a generated ID. A missing content
// hash or fetch time is filled in.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *readtext.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = time.Now().UTC()
	}
	if doc.ContentHash == "" {
		doc.ContentHash = hashContent(doc.Content)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceURL, doc.Title, doc.Content, doc.ContentHash,
		doc.NextPageLink, doc.PageCount, doc.Impossible, doc.FetchedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for i, url := range doc.Pages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_pages (document_id, position, url) VALUES (?, ?, ?)",
			doc.ID, i, url); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*readtext.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, readtext.Errorf(readtext.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	if doc.Pages, err = s.findPages(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, most recently
// fetched first.
func (s *DocumentService) FindDocuments(ctx context.Context, filter readtext.DocumentFilter) ([]*readtext.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*readtext.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, doc := range docs {
		if doc.Pages, err = s.findPages(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// DeleteDocument permanently removes a document and its page list.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return readtext.Errorf(readtext.ENOTFOUND, "document not found")
	}

	return nil
}

func (s *DocumentService) findPages(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url FROM document_pages WHERE document_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		pages = append(pages, url)
	}
	return pages, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*readtext.Document, error) {
	var doc readtext.Document
	var fetchedAt string

	if err := row.Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.Content, &doc.ContentHash,
		&doc.NextPageLink, &doc.PageCount, &doc.Impossible, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	if doc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
