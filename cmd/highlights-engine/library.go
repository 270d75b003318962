// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/highlights-engine/internal/clippings"
	"github.com/pdiddy/highlights-engine/internal/library"
	"github.com/pdiddy/highlights-engine/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the highlights library (store, retrieve, export)",
	Long: `Library manages a local SQLite index over parsed highlights. Use
subcommands to ingest a clippings export, search highlights, or export.`,
}

// --- store subcommand ---

var libraryStoreCmd = &cobra.Command{
	Use:   "store [input-file]",
	Short: "Ingest a clippings export into the library",
	Long: `Store parses a clippings export and ingests its highlights into a
SQLite database with FTS5 indexing. A book already in the library has its
highlights replaced, so re-ingesting a newer export is safe.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibraryStore,
}

func runLibraryStore(cmd *cobra.Command, args []string) error {
	input := defaultInputFile
	if len(args) > 0 {
		input = args[0]
	}

	content, err := clippings.ReadFile(input)
	if err != nil {
		return err
	}
	books, parseSummary := clippings.Parse(content)
	fmt.Printf("Parsed %d highlights from %d books (%d skipped).\n\n",
		parseSummary.Accepted, len(books), parseSummary.Skipped)

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), books, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d book(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var libraryRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search the library with full-text search and filters",
	Long: `Retrieve searches highlight text using FTS5 full-text search,
structured filters (title, author), or a combination of both.`,
	RunE: runLibraryRetrieve,
}

func runLibraryRetrieve(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --title, or --author")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []library.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-30s  %s\n",
		"Rank", "Text", "Title", "Attribution")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-30s  %s\n", i+1, text, title, r.Attribution)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes the full library (or a filtered subset) to
<library-dir>/index/export.yaml or export.json. Supports the same filter
flags as retrieve for partial exports.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*library.Store, error) {
	libraryDir := stringSetting(cmd, "library-dir", "library_dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return library.NewStore(types.LibraryConfig{
		LibraryDir: libraryDir,
		MaxResults: maxResults,
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:      queryText,
		Title:      title,
		Author:     author,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("library-dir", "", "base directory for the library (default: library)")
	libraryCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	libraryRetrieveCmd.Flags().String("query", "", "full-text search query")
	libraryRetrieveCmd.Flags().String("title", "", "filter by book title")
	libraryRetrieveCmd.Flags().String("author", "", "filter by author")
	libraryRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	libraryRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	libraryExportCmd.Flags().String("title", "", "filter by book title for partial export")
	libraryExportCmd.Flags().String("author", "", "filter by author for partial export")
	libraryExportCmd.Flags().Int("limit", 0, "maximum highlights to export (0 = all)")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryStoreCmd)
	libraryCmd.AddCommand(libraryRetrieveCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
