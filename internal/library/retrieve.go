// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over highlight text.
	Query string

	// Title filters by exact book title.
	Title string

	// Author filters by exact author.
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Title == "" && q.Author == ""
}

// QueryResult is one highlight with its book identity.
type QueryResult struct {
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Attribution string `json:"attribution" yaml:"attribution"`
	Text        string `json:"text" yaml:"text"`
}

// Retrieve queries the library with optional full-text search and
// structured filters. Full-text results come back in relevance order;
// structured-only queries in book then source-appearance order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT b.title, b.author, h.attribution, h.text
			FROM highlights_fts
			JOIN highlights h ON h.rowid = highlights_fts.rowid
			JOIN books b ON h.book_id = b.id
			WHERE highlights_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT b.title, b.author, h.attribution, h.text
			FROM highlights h
			JOIN books b ON h.book_id = b.id
			WHERE 1=1`)
	}

	if opts.Title != "" {
		qb.WriteString(` AND b.title = ?`)
		args = append(args, opts.Title)
	}

	if opts.Author != "" {
		qb.WriteString(` AND b.author = ?`)
		args = append(args, opts.Author)
	}

	if useFTS {
		qb.WriteString(` ORDER BY highlights_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY b.title, h.position`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var qr QueryResult
		if err := rows.Scan(&qr.Title, &qr.Author, &qr.Attribution, &qr.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}
