package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/search"
)

var (
	searchSite string
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a one-shot query against a generated site's index",
	Example: `  docsmith search Datum
  docsmith search "list map" --site site --json`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchSite, "site", "", "generated site directory (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dir := searchSite
	if dir == "" {
		dir = cfg.Site.OutputDir
	}

	records, err := search.ReadPayload(dir)
	if err != nil {
		log.Fatalf("loading search payload: %v", err)
	}

	index := search.Build(records)
	res := index.Query(args[0], 0, queryOptions(cfg))

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("encoding results: %v", err)
		}
		return
	}

	if len(res.Matches) == 0 {
		fmt.Printf("no results for %q\n", res.Query)
		return
	}

	for _, m := range res.Matches {
		parent := ""
		if m.Record.Module != "" {
			parent = " (" + m.Record.Module + ")"
		}
		fmt.Printf("%-12s %s%s\n", m.Record.Kind, m.Record.Title, parent)
		fmt.Printf("             %s\n", m.Record.Location)
		if m.Record.Preview != "" {
			fmt.Printf("             %s\n", m.Record.Preview)
		}
	}
	if res.Degraded {
		fmt.Fprintln(os.Stderr, "note: fuzzy matching skipped for this query")
	}
}
