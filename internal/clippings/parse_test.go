package clippings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/highlights-engine/pkg/types"
)

// record builds one raw clipping block from its three parts.
func record(titleLine, metaLine, text string) string {
	return titleLine + "\n" + metaLine + "\n\n" + text
}

// export joins blocks with the separator token, as the device writes them.
func export(blocks ...string) string {
	return strings.Join(blocks, "\n"+Separator+"\n") + "\n" + Separator + "\n"
}

// --- parseRecord ---

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name            string
		block           string
		wantIdentity    types.BookIdentity
		wantText        string
		wantAttribution string
		wantOK          bool
	}{
		{
			name: "page location and date",
			block: record(
				"The Go Programming Language (Donovan, Alan A. A.)",
				"- Your Highlight on page 12 | Location 340-342 | Added on Monday, 1 April 2024 21:15:03",
				"Interfaces are satisfied implicitly.",
			),
			wantIdentity:    types.BookIdentity{Title: "The Go Programming Language", Author: "Donovan, Alan A. A."},
			wantText:        "Interfaces are satisfied implicitly.",
			wantAttribution: "Page 12 | Location 340-342 | Added on Monday, 1 April 2024 21:15:03",
			wantOK:          true,
		},
		{
			name: "page range without location",
			block: record(
				"Dune (Herbert, Frank)",
				"- Your Highlight on page 12-14 | Added on Friday, 3 May 2024 08:00:00",
				"Fear is the mind-killer.",
			),
			wantIdentity:    types.BookIdentity{Title: "Dune", Author: "Herbert, Frank"},
			wantText:        "Fear is the mind-killer.",
			wantAttribution: "Page 12-14 | Added on Friday, 3 May 2024 08:00:00",
			wantOK:          true,
		},
		{
			name: "location without page",
			block: record(
				"Dune (Herbert, Frank)",
				"- Your Highlight on Location 1205 | Added on Friday, 3 May 2024 08:02:11",
				"He who controls the spice controls the universe.",
			),
			wantIdentity:    types.BookIdentity{Title: "Dune", Author: "Herbert, Frank"},
			wantText:        "He who controls the spice controls the universe.",
			wantAttribution: "Location 1205 | Added on Friday, 3 May 2024 08:02:11",
			wantOK:          true,
		},
		{
			name: "date only",
			block: record(
				"Essays (Montaigne)",
				"- Your Highlight on Added on Sunday, 7 January 2024 10:30:00",
				"Que sais-je?",
			),
			wantIdentity:    types.BookIdentity{Title: "Essays", Author: "Montaigne"},
			wantText:        "Que sais-je?",
			wantAttribution: "Added on Sunday, 7 January 2024 10:30:00",
			wantOK:          true,
		},
		{
			name: "title containing its own parentheses",
			block: record(
				"Meditations (Annotated) (Aurelius, Marcus)",
				"- Your Highlight on page 3 | Added on Monday, 1 April 2024 09:00:00",
				"You have power over your mind.",
			),
			wantIdentity:    types.BookIdentity{Title: "Meditations (Annotated)", Author: "Aurelius, Marcus"},
			wantText:        "You have power over your mind.",
			wantAttribution: "Page 3 | Added on Monday, 1 April 2024 09:00:00",
			wantOK:          true,
		},
		{
			name: "multiple authors",
			block: record(
				"Structure and Interpretation (Abelson, Harold; Sussman, Gerald Jay)",
				"- Your Highlight on Location 88 | Added on Tuesday, 2 April 2024 22:10:45",
				"Programs must be written for people to read.",
			),
			wantIdentity:    types.BookIdentity{Title: "Structure and Interpretation", Author: "Abelson, Harold; Sussman, Gerald Jay"},
			wantText:        "Programs must be written for people to read.",
			wantAttribution: "Location 88 | Added on Tuesday, 2 April 2024 22:10:45",
			wantOK:          true,
		},
		{
			name: "multi-line highlight text",
			block: "Dune (Herbert, Frank)\n" +
				"- Your Highlight on page 5 | Added on Friday, 3 May 2024 08:05:00\n" +
				"\n" +
				"First line.\nSecond line.",
			wantIdentity:    types.BookIdentity{Title: "Dune", Author: "Herbert, Frank"},
			wantText:        "First line.\nSecond line.",
			wantAttribution: "Page 5 | Added on Friday, 3 May 2024 08:05:00",
			wantOK:          true,
		},
		{
			name:   "too few lines",
			block:  "Dune (Herbert, Frank)\n- Your Highlight on page 5 | Added on Friday",
			wantOK: false,
		},
		{
			name: "title line without parenthesized author",
			block: record(
				"My Private Notes",
				"- Your Highlight on page 5 | Added on Friday, 3 May 2024 08:05:00",
				"Some text.",
			),
			wantOK: false,
		},
		{
			name: "metadata line without Added on",
			block: record(
				"Dune (Herbert, Frank)",
				"- Your Highlight on page 5 | Location 99",
				"Some text.",
			),
			wantOK: false,
		},
		{
			name: "metadata line is not a highlight",
			block: record(
				"Dune (Herbert, Frank)",
				"- Your Bookmark on page 5 | Added on Friday, 3 May 2024 08:05:00",
				"Some text.",
			),
			wantOK: false,
		},
		{
			name: "empty highlight text",
			block: "Dune (Herbert, Frank)\n" +
				"- Your Highlight on page 5 | Added on Friday, 3 May 2024 08:05:00\n" +
				"   \n\t",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, highlight, ok := parseRecord(tt.block)
			if ok != tt.wantOK {
				t.Fatalf("parseRecord ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if identity != tt.wantIdentity {
				t.Errorf("identity = %+v, want %+v", identity, tt.wantIdentity)
			}
			if highlight.Text != tt.wantText {
				t.Errorf("text = %q, want %q", highlight.Text, tt.wantText)
			}
			if highlight.Attribution != tt.wantAttribution {
				t.Errorf("attribution = %q, want %q", highlight.Attribution, tt.wantAttribution)
			}
		})
	}
}

// --- Parse ---

func TestParseGroupsByBookInFirstSeenOrder(t *testing.T) {
	content := export(
		record("Book B (Author B)",
			"- Your Highlight on page 1 | Added on Monday, 1 April 2024 09:00:00",
			"B one."),
		record("Book A (Author A)",
			"- Your Highlight on page 2 | Added on Monday, 1 April 2024 09:01:00",
			"A one."),
		record("Book B (Author B)",
			"- Your Highlight on page 3 | Added on Monday, 1 April 2024 09:02:00",
			"B two."),
	)

	books, summary := Parse(content)

	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if books[0].Title != "Book B" || books[1].Title != "Book A" {
		t.Errorf("book order = %q, %q; want Book B, Book A", books[0].Title, books[1].Title)
	}
	if len(books[0].Highlights) != 2 {
		t.Fatalf("Book B has %d highlights, want 2", len(books[0].Highlights))
	}
	if books[0].Highlights[0].Text != "B one." || books[0].Highlights[1].Text != "B two." {
		t.Errorf("Book B highlight order = %q, %q", books[0].Highlights[0].Text, books[0].Highlights[1].Text)
	}
	if summary.Accepted != 3 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want 3 accepted, 0 skipped", summary)
	}
}

func TestParseMalformedRecordDoesNotAffectNeighbors(t *testing.T) {
	content := export(
		record("Dune (Herbert, Frank)",
			"- Your Highlight on page 1 | Added on Monday, 1 April 2024 09:00:00",
			"First."),
		record("Dune (Herbert, Frank)",
			"- Your Highlight on page 2 | Location 99", // no "Added on"
			"Dropped."),
		record("Dune (Herbert, Frank)",
			"- Your Highlight on page 3 | Added on Monday, 1 April 2024 09:02:00",
			"Second."),
	)

	books, summary := Parse(content)

	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}
	if got := len(books[0].Highlights); got != 2 {
		t.Fatalf("got %d highlights, want 2", got)
	}
	if books[0].Highlights[0].Text != "First." || books[0].Highlights[1].Text != "Second." {
		t.Errorf("highlights = %q, %q; want First., Second.",
			books[0].Highlights[0].Text, books[0].Highlights[1].Text)
	}
	if summary.Candidates != 3 || summary.Accepted != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 3 candidates, 2 accepted, 1 skipped", summary)
	}
}

func TestParseSkipsEmptyBlocks(t *testing.T) {
	content := Separator + "\n\n" + Separator + "\n" +
		record("Dune (Herbert, Frank)",
			"- Your Highlight on page 1 | Added on Monday, 1 April 2024 09:00:00",
			"Text.") +
		"\n" + Separator + "\n"

	books, summary := Parse(content)

	if len(books) != 1 || summary.Accepted != 1 {
		t.Fatalf("books = %d, accepted = %d; want 1, 1", len(books), summary.Accepted)
	}
	if summary.Candidates != 1 {
		t.Errorf("candidates = %d, want 1 (empty blocks are not candidates)", summary.Candidates)
	}
	if summary.Blocks != 4 {
		t.Errorf("blocks = %d, want 4 (raw splits, empties included)", summary.Blocks)
	}
}

func TestParseEmptyInput(t *testing.T) {
	books, summary := Parse("")
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
	if summary.Accepted != 0 || summary.Candidates != 0 {
		t.Errorf("summary = %+v, want no candidates", summary)
	}
}

// --- ReadFile ---

func TestReadFileStripsBOMAndNormalizesLineEndings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "My Clippings.txt")

	raw := "\ufeffDune (Herbert, Frank)\r\n" +
		"- Your Highlight on page 1 | Added on Monday, 1 April 2024 09:00:00\r\n" +
		"\r\n" +
		"Fear is the mind-killer.\r\n" +
		Separator + "\r\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.HasPrefix(content, "\ufeff") {
		t.Error("BOM not stripped")
	}
	if strings.Contains(content, "\r") {
		t.Error("carriage returns not normalized")
	}

	books, summary := Parse(content)
	if summary.Accepted != 1 || len(books) != 1 {
		t.Fatalf("parse after ReadFile: %+v, %d books", summary, len(books))
	}
	if books[0].Highlights[0].Text != "Fear is the mind-killer." {
		t.Errorf("text = %q", books[0].Highlights[0].Text)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
