// Package fs reads pages from and writes extracted text to the local file
// system.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/charset"
)

// Ensure Fetcher implements readtext.Fetcher at compile time.
var _ readtext.Fetcher = (*Fetcher)(nil)

// Fetcher reads pages saved under a base directory. A URL resolves to the
// file named by its last path segment, so that saved pages of a paginated
// article can link to each other by their original URLs.
type Fetcher struct {
	baseDir string
}

// NewFetcher creates a Fetcher reading from baseDir.
func NewFetcher(baseDir string) *Fetcher {
	return &Fetcher{baseDir: baseDir}
}

// Fetch reads the file for url and decodes it to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := FileName(url)
	if name == "" || name == "." || name == ".." {
		return "", readtext.Errorf(readtext.EINVALID, "no file name in %s", url)
	}

	body, err := os.ReadFile(filepath.Join(f.baseDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return "", readtext.Errorf(readtext.EFETCH, "no page file %s for %s", name, url)
	} else if err != nil {
		return "", readtext.Errorf(readtext.EFETCH, "reading %s: %v", name, err)
	}

	text, _ := charset.Decode(body, "", false)
	return text, nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

// FileName returns the last path segment of url, ignoring any query or
// fragment. Backslashes count as separators.
func FileName(url string) string {
	url = strings.ReplaceAll(url, `\`, "/")
	if i := strings.IndexAny(url, "?#"); i != -1 {
		url = url[:i]
	}
	return url[strings.LastIndex(url, "/")+1:]
}
