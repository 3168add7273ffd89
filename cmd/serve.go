package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/site"
)

var (
	serveSite  string
	serveAddr  string
	serveWatch string
	serveLexer string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview a generated site over HTTP",
	Example: `  docsmith serve
  docsmith serve --watch docs.json`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSite, "site", "", "generated site directory (default from config)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "metadata file to watch; regenerate the site on change")
	serveCmd.Flags().StringVar(&serveLexer, "lexer", "", "chroma lexer for definition blocks in regenerated pages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	dir := serveSite
	if dir == "" {
		dir = cfg.Site.OutputDir
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	server := site.NewServer(addr, dir)
	if serveWatch != "" {
		metadata := serveWatch
		server = server.WithWatch(metadata, func() error {
			return generate(context.Background(), metadata, dir, cfg.Site.Title, serveLexer, cfg.Search.PreviewLen)
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("serve failed: %v", err)
	}
}
