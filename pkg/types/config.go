// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "highlights-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	// OutputDir is the directory that receives one Markdown file per book.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Enrich controls whether book metadata is looked up from OpenLibrary
	// and written as document frontmatter.
	Enrich bool `json:"enrich" yaml:"enrich"`
}

// LibraryConfig holds settings for the library index.
type LibraryConfig struct {
	// LibraryDir is the base directory for the library (contains index/).
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// MetadataConfig holds settings for OpenLibrary enrichment.
type MetadataConfig struct {
	HTTPConfig `yaml:",inline"`

	// Contact is an email or URL appended to the User-Agent so the API
	// operator can reach us; loaded from .secrets/openlibrary-contact.
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}
