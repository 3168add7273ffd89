package cmd

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/docmodel"
	"github.com/docsmith/docsmith/internal/render"
	"github.com/docsmith/docsmith/internal/search"
)

var (
	generateOutput string
	generateTitle  string
	generateLexer  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <metadata.json>",
	Short: "Build the documentation site and search payload from analyzer metadata",
	Example: `  docsmith generate docs.json
  docsmith generate docs.json -o site --title "Aiken Stdlib" --lexer rust`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output directory (default from config)")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "site title (default from config)")
	generateCmd.Flags().StringVar(&generateLexer, "lexer", "", "chroma lexer for definition blocks")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	outDir := generateOutput
	if outDir == "" {
		outDir = cfg.Site.OutputDir
	}
	title := generateTitle
	if title == "" {
		title = cfg.Site.Title
	}

	start := time.Now()
	if err := generate(cmd.Context(), args[0], outDir, title, generateLexer, cfg.Search.PreviewLen); err != nil {
		log.Fatalf("generate failed: %v", err)
	}
	slog.Info("site generated", "output", outDir, "elapsed", time.Since(start).Round(time.Millisecond))
}

// generate runs one full generation pass: metadata → doc model → flat
// records → rendered pages + payload. Any validation failure aborts before
// anything is written.
func generate(ctx context.Context, metadataPath, outDir, title, lexer string, previewLen int) error {
	modules, err := docmodel.Load(metadataPath)
	if err != nil {
		return err
	}

	records := search.Flatten(modules, previewLen)
	slog.Debug("records flattened", "modules", len(modules), "records", len(records))

	return render.Generate(ctx, modules, records, outDir, render.Options{Title: title, Lexer: lexer})
}
