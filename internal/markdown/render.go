// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown renders parsed books into per-book Markdown documents
// and writes them to an output directory.
package markdown

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/highlights-engine/pkg/types"
)

// mdExt is the extension appended to the sanitized title.
const mdExt = ".md"

// WriteResult holds the outcome of a batch write run.
type WriteResult struct {
	Written int
	Failed  int
}

// Total returns the total number of books processed.
func (r WriteResult) Total() int {
	return r.Written + r.Failed
}

// HasFailures reports whether any documents failed to write.
func (r WriteResult) HasFailures() bool {
	return r.Failed > 0
}

// RenderBook returns the Markdown document for one book. The document has
// no H1 heading: the filename already carries the title, so the author line
// plus a rule stands in for one. When meta is non-nil, YAML frontmatter
// with the book identity and looked-up metadata precedes the body.
func RenderBook(book *types.Book, meta *types.Metadata) string {
	var b strings.Builder

	if meta != nil {
		b.WriteString(frontmatter(book, meta))
	}

	fmt.Fprintf(&b, "_by %s_\n\n", book.Author)
	b.WriteString("---\n\n")

	for i, h := range book.Highlights {
		for _, line := range strings.Split(h.Text, "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n_– %s_\n", h.Attribution)

		if i < len(book.Highlights)-1 {
			b.WriteString("\n---\n\n")
		} else {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// frontmatter renders the YAML frontmatter block for an enriched document.
func frontmatter(book *types.Book, meta *types.Metadata) string {
	fm := struct {
		Title          string `yaml:"title"`
		Author         string `yaml:"author"`
		types.Metadata `yaml:",inline"`
	}{
		Title:    book.Title,
		Author:   book.Author,
		Metadata: *meta,
	}

	data, err := yaml.Marshal(&fm)
	if err != nil {
		return ""
	}
	return "---\n" + string(data) + "---\n\n"
}

// WriteBook renders one book and writes it under outDir as
// <sanitized-title>.md. It reports success, printing a per-file status
// line to w.
func WriteBook(book *types.Book, meta *types.Metadata, outDir string, w io.Writer) bool {
	name := Sanitize(book.Title) + mdExt
	path := filepath.Join(outDir, name)

	content := RenderBook(book, meta)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return false
	}

	fmt.Fprintf(w, "written: %s\n", name)
	return true
}

// WriteBooks writes one document per book, in collection order, printing
// per-file status to w and returning a summary. A failure writing one
// book's document does not abort the remaining books; only output
// directory creation is fatal.
func WriteBooks(books []*types.Book, metas map[types.BookIdentity]*types.Metadata, outDir string, w io.Writer) (WriteResult, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	var result WriteResult
	for _, book := range books {
		if WriteBook(book, metas[book.BookIdentity], outDir, w) {
			result.Written++
		} else {
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d written, %d failed (total: %d)\n",
		result.Written, result.Failed, result.Total())
	return result, nil
}
