package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/readtext"
)

// URLToPath converts a page URL to a relative text file path.
// Example: https://example.com/news/story.html → news/story.txt
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", readtext.Errorf(readtext.EINVALID, "invalid URL %q", rawURL)
	}

	path := u.Path
	if path == "" || path == "/" {
		return "index.txt", nil
	}

	path = strings.TrimPrefix(path, "/")
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return "", readtext.Errorf(readtext.EINVALID, "path traversal in %q", rawURL)
		}
	}

	if strings.HasSuffix(path, "/") {
		return path + "index.txt", nil
	}

	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".html") || strings.EqualFold(ext, ".htm") {
		path = strings.TrimSuffix(path, ext)
	}
	return path + ".txt", nil
}

// FormatDocument formats a document with YAML frontmatter. The title line
// ends with a paragraph separator so that it reads as its own sentence.
func FormatDocument(doc *readtext.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\nfetched: ")
	b.WriteString(doc.FetchedAt.Format("2006-01-02"))
	if doc.Impossible {
		b.WriteString("\nimpossible: true")
	}
	b.WriteString("\n---\n\n")
	b.WriteString(strings.TrimSpace(doc.Title))
	b.WriteString("\u2029\n")
	b.WriteString(doc.Content)
	return b.String()
}

// Ensure Writer implements readtext.DocumentWriter at compile time.
var _ readtext.DocumentWriter = (*Writer)(nil)

// Writer writes documents as text files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateDocument writes a document to disk as a text file.
func (w *Writer) CreateDocument(ctx context.Context, doc *readtext.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatDocument(doc)), 0644)
}
