package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/mcp"
)

var mcpSite string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve a generated site's search index over MCP stdio",
	Args:  cobra.NoArgs,
	Run:   runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpSite, "site", "", "generated site directory (default from config)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dir := mcpSite
	if dir == "" {
		dir = cfg.Site.OutputDir
	}

	server, err := mcp.NewServer(dir, queryOptions(cfg))
	if err != nil {
		log.Fatalf("failed to create MCP server: %v", err)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
