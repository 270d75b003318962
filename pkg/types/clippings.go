// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the highlights-engine
// pipeline: parsed books and highlights, plus per-stage configuration.
package types

// BookIdentity is the grouping key for highlights: the exact title and
// author text from a clipping's first line, trimmed. Two records with
// identical identity belong to the same book; comparison is by value.
type BookIdentity struct {
	// Title is the book title as it appears in the clippings file.
	Title string `json:"title" yaml:"title"`

	// Author is the content of the trailing parenthesized group on the
	// title line. Multiple authors stay as one string (e.g. "Smith; Jones").
	Author string `json:"author" yaml:"author"`
}

// Highlight is one quoted passage from a book. Immutable once parsed.
type Highlight struct {
	// Text is the highlighted passage, possibly spanning multiple lines.
	Text string `json:"text" yaml:"text"`

	// Attribution is the rendered one-line summary of whichever of
	// page, location, and date were present on the metadata line,
	// in that fixed order, joined with " | "
	// (e.g. "Page 12 | Location 340-342 | Added on Monday, 1 April 2024").
	Attribution string `json:"attribution" yaml:"attribution"`
}

// Book is one source book with its highlights in the order they appeared
// in the clippings file.
type Book struct {
	BookIdentity `yaml:",inline"`

	// Highlights holds the accepted highlights in source appearance order.
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}

// Metadata holds enriched book information looked up from OpenLibrary,
// rendered into document frontmatter when enrichment is enabled.
type Metadata struct {
	// PublishYear is the first publication year, zero when unknown.
	PublishYear int `json:"publish_year,omitempty" yaml:"publish_year,omitempty"`

	// Subjects lists topic labels from the source catalog.
	Subjects []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`

	// OpenLibraryKey is the work key (e.g. "/works/OL27448W").
	OpenLibraryKey string `json:"open_library_key,omitempty" yaml:"open_library_key,omitempty"`
}
