// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/highlights-engine/internal/clippings"
	"github.com/pdiddy/highlights-engine/internal/markdown"
	"github.com/pdiddy/highlights-engine/internal/metadata"
	"github.com/pdiddy/highlights-engine/pkg/types"
)

// defaultInputFile is where Kindle devices place the export.
const defaultInputFile = "My Clippings.txt"

var convertCmd = &cobra.Command{
	Use:   "convert [input-file]",
	Short: "Convert a clippings export into per-book Markdown files",
	Long: `Convert parses a Kindle "My Clippings.txt" export and writes one
Markdown document per book into the output directory. Malformed records are
skipped; a failure writing one book does not abort the rest.

With --enrich, each book is looked up on OpenLibrary and the result is
written as YAML frontmatter.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := defaultInputFile
	if len(args) > 0 {
		input = args[0]
	}

	enrich, _ := cmd.Flags().GetBool("enrich")
	cfg := types.ConvertConfig{
		OutputDir: stringSetting(cmd, "output-dir", "output_dir"),
		Enrich:    enrich,
	}

	content, err := clippings.ReadFile(input)
	if err != nil {
		return err
	}

	books, summary := clippings.Parse(content)
	fmt.Printf("Found %d blocks, %d candidate clippings.\n", summary.Blocks, summary.Candidates)
	fmt.Printf("Parsed %d highlights from %d books (%d skipped).\n",
		summary.Accepted, len(books), summary.Skipped)

	var metas map[types.BookIdentity]*types.Metadata
	if cfg.Enrich {
		metas = enrichBooks(cmd.Context(), books)
	}

	fmt.Printf("\nWriting Markdown files to %s\n", cfg.OutputDir)
	if _, err := markdown.WriteBooks(books, metas, cfg.OutputDir, os.Stdout); err != nil {
		return err
	}
	return nil
}

// enrichBooks looks up each book on OpenLibrary. Lookup failures are
// reported and leave the book unenriched.
func enrichBooks(ctx context.Context, books []*types.Book) map[types.BookIdentity]*types.Metadata {
	client := metadata.NewClient(types.MetadataConfig{
		Contact: secretDefault("openlibrary-contact", ""),
	})

	metas := make(map[types.BookIdentity]*types.Metadata, len(books))
	for _, book := range books {
		meta, err := client.Lookup(ctx, book.Title, book.Author)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: enrichment failed for %s: %v\n", book.Title, err)
			continue
		}
		metas[book.BookIdentity] = meta
	}
	return metas
}

func init() {
	convertCmd.Flags().StringP("output-dir", "o", "", "directory for generated Markdown files (default: Kindle_Markdown_Notes)")
	convertCmd.Flags().Bool("enrich", false, "look up book metadata on OpenLibrary and write frontmatter")

	rootCmd.AddCommand(convertCmd)
}
