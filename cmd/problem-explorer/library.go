// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/problem-explorer/internal/explain"
	"github.com/pdiddy/problem-explorer/internal/fetch"
	"github.com/pdiddy/problem-explorer/internal/library"
	"github.com/pdiddy/problem-explorer/internal/solution"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse problems stored in the local library",
	Long: `Library manages the local SQLite cache of fetched problems. Problems are
stored when library.enabled is set in the config file or explain runs with
--library. Use subcommands to list, search, show or export them.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryQuery(cmd, "")
	},
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over titles, descriptions and topics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryQuery(cmd, strings.Join(args, " "))
	},
}

func runLibraryQuery(cmd *cobra.Command, query string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd, query)
	if err != nil {
		return err
	}

	entries, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatEntries(w io.Writer, entries []library.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No problems found.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-40s  %-7s  %s\n", "ID", "Slug", "Level", "Topics")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		slug := e.Slug
		if len(slug) > 40 {
			slug = slug[:37] + "..."
		}
		fmt.Fprintf(w, "%-5s  %-40s  %-7s  %s\n", e.ID, slug, e.Difficulty, strings.Join(e.Topics, ", "))
	}
	fmt.Fprintf(w, "\n%d problems\n", len(entries))
	return nil
}

// --- show subcommand ---

var libraryShowCmd = &cobra.Command{
	Use:   "show <problem name>",
	Short: "Print the explanation for a stored problem without fetching",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := fetch.Slugify(strings.Join(args, " "))
		if err := fetch.ValidateSlug(slug); err != nil {
			return err
		}

		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Get(cmd.Context(), slug)
		if err != nil {
			return err
		}

		catalog, err := solution.LoadCatalog(viper.GetString("solutions.catalog"))
		if err != nil {
			return err
		}
		e := &explain.Explainer{Approacher: &solution.Assembler{Catalog: catalog}}
		fmt.Fprint(cmd.OutOrStdout(), e.Render(cmd.Context(), rec).Markdown)
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored problems to YAML or JSON",
	Long: `Export writes the stored problems (or a filtered subset) to export.yaml
or export.json in the library directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		query, _ := cmd.Flags().GetString("query")
		opts, err := queryOptsFromFlags(cmd, query)
		if err != nil {
			return err
		}

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(cmd.Context(), opts)
		case "json":
			path, err = store.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

// --- shared helpers ---

func openLibrary() (*library.Store, error) {
	cfg := loadConfig()
	return library.NewStore(cfg.Library)
}

func queryOptsFromFlags(cmd *cobra.Command, query string) (library.QueryOptions, error) {
	opts := library.QueryOptions{Query: query}

	if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
		diff, err := types.ParseDifficulty(d)
		if err != nil {
			return opts, err
		}
		opts.Difficulty = diff
	}
	if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
		opts.Topics = []string{topic}
	}
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")
	return opts, nil
}

func init() {
	libraryCmd.PersistentFlags().String("dir", "", "library directory (default ~/.config/problem-explorer/library)")
	libraryCmd.PersistentFlags().Int("max-results", 0, "default maximum number of query results (default 20)")
	viper.BindPFlag("library.dir", libraryCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("library.max_results", libraryCmd.PersistentFlags().Lookup("max-results"))

	for _, c := range []*cobra.Command{libraryListCmd, librarySearchCmd, libraryExportCmd} {
		c.Flags().String("difficulty", "", "filter by difficulty: easy, medium, hard")
		c.Flags().String("topic", "", "filter by topic tag")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	libraryListCmd.Flags().Bool("json", false, "output results as JSON")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	libraryExportCmd.Flags().String("query", "", "full-text search filter for partial export")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
