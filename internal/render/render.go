// Package render maps the immutable doc model to static HTML pages. It holds
// no state of its own: the same model always renders the same site.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	gm "github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"

	"github.com/docsmith/docsmith/internal/docmodel"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/search"
)

//go:embed templates/*.tmpl assets/style.css
var content embed.FS

var pageTemplates = template.Must(template.ParseFS(content, "templates/*.tmpl"))

// Options control site-wide presentation.
type Options struct {
	// Title is shown in page headers and the index.
	Title string
	// Lexer is the chroma lexer name used for definition blocks; the
	// fallback lexer is used when empty or unknown.
	Lexer string
}

type moduleRef struct {
	Name string
	Page string
}

type argView struct {
	Label string
	Docs  template.HTML
}

type ctorView struct {
	Name       string
	Anchor     string
	Docs       template.HTML
	Definition template.HTML
	Arguments  []argView
}

type typeView struct {
	Name         string
	Anchor       string
	Docs         template.HTML
	Definition   template.HTML
	Constructors []ctorView
}

type declView struct {
	Name       string
	Anchor     string
	Docs       template.HTML
	Definition template.HTML
}

type modulePage struct {
	SiteTitle string
	Name      string
	// Root is the relative prefix back to the site root; nested module
	// pages live in subdirectories.
	Root      string
	Docs      template.HTML
	Types     []typeView
	Constants []declView
	Functions []declView
	Modules   []moduleRef
}

type indexPage struct {
	SiteTitle string
	Modules   []indexEntry
}

type indexEntry struct {
	Name    string
	Page    string
	Summary string
}

// Generate writes the full site for the given model into outDir: one page
// per module, an index page, shared styling, and the search payload derived
// from records. Pages render concurrently; the first failure aborts the run.
func Generate(ctx context.Context, modules []docmodel.Module, records []search.Record, outDir string, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Documentation"
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeAssets(outDir); err != nil {
		return err
	}

	refs := make([]moduleRef, len(modules))
	pages := make(map[string]string, len(modules))
	for i, m := range modules {
		page := search.PageName(m.Name)
		refs[i] = moduleRef{Name: m.Name, Page: page}
		pages[m.Name] = page
	}

	g, _ := errgroup.WithContext(ctx)
	for _, m := range modules {
		g.Go(func() error {
			return renderModulePage(m, refs, pages, outDir, opts)
		})
	}
	g.Go(func() error {
		return renderIndexPage(modules, outDir, opts)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := search.WritePayload(outDir, records); err != nil {
		return err
	}

	return nil
}

func renderModulePage(m docmodel.Module, refs []moduleRef, pages map[string]string, outDir string, opts Options) error {
	root := strings.Repeat("../", strings.Count(m.Name, "/"))

	linked := pages
	if root != "" {
		linked = make(map[string]string, len(pages))
		for name, page := range pages {
			linked[name] = root + page
		}
	}
	docs := func(src string) template.HTML {
		return markdownHTML(markdown.ResolveModuleLinks(src, linked))
	}

	page := modulePage{
		SiteTitle: opts.Title,
		Name:      m.Name,
		Root:      root,
		Docs:      docs(m.Docs),
		Modules:   refs,
	}

	for _, t := range m.Types {
		tv := typeView{
			Name:       t.Name,
			Anchor:     search.TypeAnchor(t.Name),
			Docs:       docs(t.Docs),
			Definition: highlight(t.Definition, opts.Lexer),
		}
		for _, c := range t.Constructors {
			cv := ctorView{
				Name:       c.Name,
				Anchor:     search.ConstructorAnchor(t.Name, c.Name),
				Docs:       docs(c.Docs),
				Definition: highlight(c.Definition, opts.Lexer),
			}
			for _, a := range c.Arguments {
				cv.Arguments = append(cv.Arguments, argView{Label: a.Label, Docs: docs(a.Docs)})
			}
			tv.Constructors = append(tv.Constructors, cv)
		}
		page.Types = append(page.Types, tv)
	}

	for _, c := range m.Constants {
		page.Constants = append(page.Constants, declView{
			Name:       c.Name,
			Anchor:     search.ConstantAnchor(c.Name),
			Docs:       docs(c.Docs),
			Definition: highlight(c.Definition, opts.Lexer),
		})
	}

	for _, f := range m.Functions {
		page.Functions = append(page.Functions, declView{
			Name:       f.Name,
			Anchor:     search.FunctionAnchor(f.Name),
			Docs:       docs(f.Docs),
			Definition: highlight(f.Signature, opts.Lexer),
		})
	}

	return writeTemplate(filepath.Join(outDir, search.PageName(m.Name)), "module.html.tmpl", page)
}

func renderIndexPage(modules []docmodel.Module, outDir string, opts Options) error {
	page := indexPage{SiteTitle: opts.Title}
	for _, m := range modules {
		page.Modules = append(page.Modules, indexEntry{
			Name:    m.Name,
			Page:    search.PageName(m.Name),
			Summary: search.Preview(m.Docs, search.DefaultPreviewLen),
		})
	}
	return writeTemplate(filepath.Join(outDir, "index.html"), "index.html.tmpl", page)
}

func writeTemplate(path, name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating page directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeAssets(outDir string) error {
	css, err := content.ReadFile("assets/style.css")
	if err != nil {
		return fmt.Errorf("reading embedded stylesheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "style.css"), css, 0644); err != nil {
		return fmt.Errorf("writing stylesheet: %w", err)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get("github")); err != nil {
		return fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "highlight.css"), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return nil
}

// markdownHTML renders documentation markup to HTML. The analyzer is a
// trusted producer, so the output is embedded unescaped.
func markdownHTML(src string) template.HTML {
	if src == "" {
		return ""
	}
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.Autolink)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(gm.ToHTML([]byte(src), p, renderer))
}

// highlight renders a raw definition block with chroma classes.
func highlight(code, lexerName string) template.HTML {
	if code == "" {
		return ""
	}
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return template.HTML("<pre><code>" + template.HTMLEscapeString(code) + "</code></pre>")
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(&buf, styles.Get("github"), it); err != nil {
		return template.HTML("<pre><code>" + template.HTMLEscapeString(code) + "</code></pre>")
	}
	return template.HTML(buf.String())
}
