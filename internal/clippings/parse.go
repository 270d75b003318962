// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clippings parses a Kindle "My Clippings.txt" export into books
// and highlights. The file is a flat sequence of records delimited by a
// separator line; each record carries a title/author line, a metadata line
// (page, location, date in varying combinations), and the highlighted text.
// Malformed records are dropped whole without aborting the run.
package clippings

import (
	"regexp"
	"strings"

	"github.com/pdiddy/highlights-engine/pkg/types"
)

// Separator is the marker line delimiting records in the export format.
const Separator = "=========="

// titleAuthorRe matches the first line of a record: the longest possible
// leading text is the title, the final parenthesized group is the author.
// Handles authors like (Author, Name), (Author), (Author1; Author2). For
// titles carrying their own parentheses ("Book (Annotated) (Author)") the
// greedy leading group keeps them with the title.
var titleAuthorRe = regexp.MustCompile(`^(.*\S)\s+\((.+)\)$`)

// The metadata line grammar is built from one sub-pattern per optional
// segment so each slot stays independently testable. Page and location are
// each optional; the date is mandatory and runs to end of line.
const (
	// pageSegment matches "page 12 | " or "page 12-14 | ".
	pageSegment = `(?:page (?P<page>\d+(?:-\d+)?) \| )?`

	// locationSegment matches the two location sub-formats used by
	// different export variants: one captures the bare token, the other
	// captures it with its "Location " prefix still attached.
	locationSegment = `(?:Location (?P<location>\d+(?:-\d+)?)\s*\| |(?P<locationAlt>Location \d+(?:-\d+)?)\s*\| )?`

	// dateSegment matches the mandatory trailing "Added on <free text>".
	dateSegment = `Added on (?P<date>.*)`
)

// metadataRe matches the full second line of a highlight record.
var metadataRe = regexp.MustCompile(`^- Your Highlight on ` + pageSegment + locationSegment + dateSegment + `$`)

// Summary holds counters from a parse run, for progress reporting by the
// caller.
type Summary struct {
	// Blocks is the raw number of separator-delimited blocks, including
	// blocks that were empty after trimming.
	Blocks int

	// Candidates is the number of non-empty candidate blocks examined.
	Candidates int

	// Accepted is the number of candidates stored as highlights.
	Accepted int

	// Skipped is the number of candidates rejected by a structural check.
	Skipped int
}

// Parse splits content on the separator token and parses each candidate
// block into a (book, highlight) pair. Books are returned in first-seen
// order with highlights in source appearance order. A malformed record is
// dropped whole and never affects its neighbors.
func Parse(content string) ([]*types.Book, Summary) {
	blocks := strings.Split(content, Separator)

	var (
		books   []*types.Book
		index   = make(map[types.BookIdentity]*types.Book)
		summary = Summary{Blocks: len(blocks)}
	)

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		summary.Candidates++

		identity, highlight, ok := parseRecord(block)
		if !ok {
			summary.Skipped++
			continue
		}

		book, seen := index[identity]
		if !seen {
			book = &types.Book{BookIdentity: identity}
			index[identity] = book
			books = append(books, book)
		}
		book.Highlights = append(book.Highlights, highlight)
		summary.Accepted++
	}

	return books, summary
}

// parseRecord decomposes one candidate block. It reports ok=false when any
// structural check fails; partial records are never returned.
func parseRecord(block string) (types.BookIdentity, types.Highlight, bool) {
	lines := strings.Split(block, "\n")

	// A valid record needs a title line, a metadata line, and at least
	// one content line.
	if len(lines) < 3 {
		return types.BookIdentity{}, types.Highlight{}, false
	}

	m := titleAuthorRe.FindStringSubmatch(lines[0])
	if m == nil {
		return types.BookIdentity{}, types.Highlight{}, false
	}
	identity := types.BookIdentity{
		Title:  strings.TrimSpace(m[1]),
		Author: strings.TrimSpace(m[2]),
	}
	if identity.Title == "" || identity.Author == "" {
		return types.BookIdentity{}, types.Highlight{}, false
	}

	attribution, ok := parseAttribution(lines[1])
	if !ok {
		return types.BookIdentity{}, types.Highlight{}, false
	}

	text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	if text == "" {
		return types.BookIdentity{}, types.Highlight{}, false
	}

	return identity, types.Highlight{Text: text, Attribution: attribution}, true
}

// parseAttribution matches the metadata line and assembles the attribution
// string in fixed field order: page, location, date, joined with " | ".
// The alternate location sub-format's redundant "Location " prefix is
// stripped before the prefix is re-added once.
func parseAttribution(line string) (string, bool) {
	m := metadataRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	fields := make(map[string]string, len(metadataRe.SubexpNames()))
	for i, name := range metadataRe.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}

	var parts []string
	if fields["page"] != "" {
		parts = append(parts, "Page "+fields["page"])
	}
	loc := fields["location"]
	if loc == "" {
		loc = strings.TrimSpace(strings.TrimPrefix(fields["locationAlt"], "Location "))
	}
	if loc != "" {
		parts = append(parts, "Location "+loc)
	}
	parts = append(parts, "Added on "+fields["date"])

	return strings.Join(parts, " | "), true
}
