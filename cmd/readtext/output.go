package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/readtext"
)

var _ readtext.DocumentWriter = (*StdoutWriter)(nil)

// StdoutWriter prints documents in one of the output formats. Text and
// Markdown documents are separated by a blank line; JSON documents are
// written one per line.
type StdoutWriter struct {
	w      io.Writer
	format string
	count  int
}

// NewStdoutWriter creates a StdoutWriter for format.
func NewStdoutWriter(w io.Writer, format string) *StdoutWriter {
	return &StdoutWriter{w: w, format: format}
}

// CreateDocument prints doc.
func (s *StdoutWriter) CreateDocument(_ context.Context, doc *readtext.Document) error {
	if s.format == formatJSON {
		return json.NewEncoder(s.w).Encode(doc)
	}

	var b strings.Builder
	if s.count > 0 {
		b.WriteString("\n")
	}
	s.count++

	title := strings.TrimSpace(doc.Title)
	if s.format == formatMarkdown && title != "" {
		title = "# " + title
	}
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	if content := strings.TrimSpace(doc.Content); content != "" {
		b.WriteString(content)
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(s.w, b.String())
	return err
}
