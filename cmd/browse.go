package cmd

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/search"
	"github.com/docsmith/docsmith/internal/tui"
)

var browseSite string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search a generated site interactively",
	Args:  cobra.NoArgs,
	Run:   runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseSite, "site", "", "generated site directory (default from config)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dir := browseSite
	if dir == "" {
		dir = cfg.Site.OutputDir
	}

	records, err := search.ReadPayload(dir)
	if err != nil {
		log.Fatalf("loading search payload: %v", err)
	}

	model := tui.New(search.Build(records), queryOptions(cfg), cfg.Browse.Debounce())
	if _, err := tea.NewProgram(model).Run(); err != nil {
		log.Fatalf("browse failed: %v", err)
	}
}
