// Package search implements the flat record set, index, and query engine
// behind the generated site's symbol search.
package search

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/docsmith/docsmith/internal/docmodel"
)

// Kind classifies what a search record points at.
type Kind string

const (
	KindModule      Kind = "module"
	KindType        Kind = "type"
	KindConstructor Kind = "constructor"
	KindConstant    Kind = "constant"
	KindFunction    Kind = "function"
)

// Record is one independently rankable search unit derived from a documented
// entity. Module is the parent module path, empty for module records.
type Record struct {
	Title    string `json:"title"`
	Kind     Kind   `json:"kind"`
	Module   string `json:"module,omitempty"`
	Location string `json:"location"`
	Preview  string `json:"preview,omitempty"`
}

// DefaultPreviewLen bounds the documentation preview, in runes.
const DefaultPreviewLen = 140

// PageName maps a module name to its page path. Path separators in the name
// become directories, so the mapping is injective: distinct modules never
// share a page.
func PageName(module string) string {
	return module + ".html"
}

// Location builds the navigable location for an entity on a module's page.
func Location(module, anchor string) string {
	return PageName(module) + "#" + anchor
}

// Anchors are kind-qualified: a type, a constant, and a function may share a
// name within one module, so the bare name cannot address an entity.
func TypeAnchor(name string) string {
	return "type-" + name
}

func ConstructorAnchor(typeName, name string) string {
	return "constructor-" + typeName + "-" + name
}

func ConstantAnchor(name string) string {
	return "constant-" + name
}

func FunctionAnchor(name string) string {
	return "function-" + name
}

// Flatten emits exactly one Record per module, type, constructor, constant,
// and function, in model order. Entities without docs still get a record so
// they remain searchable by name.
func Flatten(modules []docmodel.Module, previewLen int) []Record {
	if previewLen <= 0 {
		previewLen = DefaultPreviewLen
	}

	var records []Record
	for _, m := range modules {
		records = append(records, Record{
			Title:    m.Name,
			Kind:     KindModule,
			Location: PageName(m.Name),
			Preview:  Preview(m.Docs, previewLen),
		})

		for _, t := range m.Types {
			records = append(records, Record{
				Title:    t.Name,
				Kind:     KindType,
				Module:   m.Name,
				Location: Location(m.Name, TypeAnchor(t.Name)),
				Preview:  Preview(t.Docs, previewLen),
			})
			for _, c := range t.Constructors {
				records = append(records, Record{
					Title:    c.Name,
					Kind:     KindConstructor,
					Module:   m.Name,
					Location: Location(m.Name, ConstructorAnchor(t.Name, c.Name)),
					Preview:  Preview(c.Docs, previewLen),
				})
			}
		}

		for _, c := range m.Constants {
			records = append(records, Record{
				Title:    c.Name,
				Kind:     KindConstant,
				Module:   m.Name,
				Location: Location(m.Name, ConstantAnchor(c.Name)),
				Preview:  Preview(c.Docs, previewLen),
			})
		}

		for _, f := range m.Functions {
			records = append(records, Record{
				Title:    f.Name,
				Kind:     KindFunction,
				Module:   m.Name,
				Location: Location(m.Name, FunctionAnchor(f.Name)),
				Preview:  Preview(f.Docs, previewLen),
			})
		}
	}

	return records
}

// Preview strips markdown from docs and truncates to at most maxLen runes,
// ellipsis included. Empty docs produce an empty preview.
func Preview(docs string, maxLen int) string {
	plain := StripMarkdown(docs)
	runes := []rune(plain)
	if len(runes) <= maxLen {
		return plain
	}
	cut := maxLen - 3
	if cut < 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:cut]) + "..."
}

// StripMarkdown reduces markdown source to plain text by walking the parsed
// AST and collecting leaf text. Block boundaries collapse to single spaces.
func StripMarkdown(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	var parts []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Text:
			parts = append(parts, string(n.Literal))
		case *ast.Code:
			parts = append(parts, string(n.Literal))
		case *ast.CodeBlock:
			parts = append(parts, string(n.Literal))
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
