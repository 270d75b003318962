// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata looks up book metadata from the OpenLibrary search API
// for document frontmatter enrichment. Lookups are best-effort: a failure
// downgrades a book to an unenriched document and never aborts a run.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/highlights-engine/internal/httputil"
	"github.com/pdiddy/highlights-engine/pkg/types"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	defaultTimeout = 10 * time.Second

	// maxSubjects caps the subjects carried into frontmatter; OpenLibrary
	// records can list hundreds.
	maxSubjects = 5
)

// Client queries the OpenLibrary search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
}

// NewClient returns a Client configured from cfg. The optional contact
// (email or URL) is appended to the User-Agent so the API operator can
// reach us.
func NewClient(cfg types.MetadataConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "highlights-engine/0.1"
	}
	if cfg.Contact != "" {
		userAgent = fmt.Sprintf("%s (%s)", userAgent, cfg.Contact)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// searchResponse mirrors the fields we use from /search.json.
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	Subject          []string `json:"subject"`
}

// Lookup searches OpenLibrary by title and author and returns metadata for
// the best-matching work.
func (c *Client) Lookup(ctx context.Context, title, author string) (*types.Metadata, error) {
	q := title
	if author != "" {
		q = title + " " + author
	}
	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=5", c.baseURL, url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("searching OpenLibrary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from OpenLibrary", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if len(sr.Docs) == 0 {
		return nil, fmt.Errorf("no results for %q", title)
	}

	doc := bestMatch(sr.Docs, title, author)

	subjects := doc.Subject
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}

	return &types.Metadata{
		PublishYear:    doc.FirstPublishYear,
		Subjects:       subjects,
		OpenLibraryKey: doc.Key,
	}, nil
}

// bestMatch scores docs against the wanted title and author, preferring
// exact matches over substring matches.
func bestMatch(docs []searchDoc, title, author string) *searchDoc {
	titleLower := strings.ToLower(title)
	authorLower := strings.ToLower(author)

	best := &docs[0]
	bestScore := -1

	for i := range docs {
		doc := &docs[i]
		score := 0

		docTitle := strings.ToLower(doc.Title)
		if docTitle == titleLower {
			score += 10
		} else if strings.Contains(docTitle, titleLower) {
			score += 5
		}

		if authorLower != "" {
			for _, name := range doc.AuthorName {
				docAuthor := strings.ToLower(name)
				if docAuthor == authorLower {
					score += 10
					break
				} else if strings.Contains(docAuthor, authorLower) {
					score += 5
					break
				}
			}
		}

		if doc.FirstPublishYear != 0 {
			score++
		}

		if score > bestScore {
			bestScore = score
			best = doc
		}
	}

	return best
}
