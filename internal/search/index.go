package search

import (
	"log/slog"
	"strings"
	"unicode"
)

// maxTokenPrefix caps how long a stored token prefix can get. Queries longer
// than this fall through to the substring scan, which handles them anyway.
const maxTokenPrefix = 16

// Index is the queryable structure over a flattened record set. It is
// immutable after Build and safe for concurrent queries.
type Index struct {
	records []Record

	// Case-folded copies, parallel to records.
	foldedTitles   []string
	foldedPreviews []string

	// Token-prefix → record IDs sharing a title token with that prefix.
	// IDs are sorted ascending and deduplicated.
	prefixes map[string][]int
}

// Build constructs the index in O(records). Queries never rebuild it.
func Build(records []Record) *Index {
	ix := &Index{
		records:        records,
		foldedTitles:   make([]string, len(records)),
		foldedPreviews: make([]string, len(records)),
		prefixes:       make(map[string][]int),
	}

	for id, r := range records {
		folded := fold(r.Title)
		ix.foldedTitles[id] = folded
		ix.foldedPreviews[id] = fold(r.Preview)

		seen := make(map[string]bool)
		for _, token := range tokenize(folded) {
			limit := len(token)
			if limit > maxTokenPrefix {
				limit = maxTokenPrefix
			}
			for i := 1; i <= limit; i++ {
				p := token[:i]
				if seen[p] {
					continue
				}
				seen[p] = true
				ix.prefixes[p] = append(ix.prefixes[p], id)
			}
		}
	}

	slog.Debug("search index built", "records", len(records), "prefixes", len(ix.prefixes))
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Records returns the indexed record set in insertion order.
func (ix *Index) Records() []Record {
	return ix.records
}

func fold(s string) string {
	return strings.ToLower(s)
}

// tokenize splits a folded title on non-alphanumeric boundaries. Module
// paths like "aiken/list" yield both segments as tokens.
func tokenize(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
