// Package markdown resolves cross-module references in documentation text.
package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// ResolveModuleLinks rewrites markdown links whose destination is a known
// module name to that module's page, so authors can write [list](aiken/list)
// and get a working link in the generated site. The source is parsed to AST
// to find real link destinations, then rewritten with targeted string
// replacements to preserve the original formatting.
func ResolveModuleLinks(src string, pages map[string]string) string {
	if len(pages) == 0 || src == "" {
		return src
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	type replacement struct {
		oldDest string
		newDest string
	}
	seen := make(map[string]bool)
	var replacements []replacement

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			module, anchor, _ := strings.Cut(dest, "#")
			page, known := pages[module]
			if !known || seen[dest] {
				return ast.GoToNext
			}
			seen[dest] = true
			newDest := page
			if anchor != "" {
				newDest += "#" + anchor
			}
			replacements = append(replacements, replacement{dest, newDest})
		}
		return ast.GoToNext
	})

	if len(replacements) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination)
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.oldDest+")", "]("+r.newDest+")")
	}

	// Reference-style definitions: [ref]: destination
	refMap := make(map[string]string, len(replacements))
	for _, r := range replacements {
		refMap["]: "+r.oldDest] = "]: " + r.newDest
	}
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for oldSuffix, newSuffix := range refMap {
			if strings.HasSuffix(trimmed, oldSuffix) {
				lines[i] = strings.Replace(line, oldSuffix, newSuffix, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
