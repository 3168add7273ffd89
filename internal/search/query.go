package search

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Match tiers, best first. A record's tier is the best mode it matched in.
const (
	TierExact = iota
	TierPrefix
	TierTitleSubstring
	TierPreviewSubstring
	TierFuzzy
)

// Options are the query-time tunables. Zero values fall back to defaults.
type Options struct {
	// MaxResults bounds the returned match list.
	MaxResults int
	// FuzzyDistance is the maximum edit distance for the fuzzy tier.
	FuzzyDistance int
	// FuzzyMaxQuery skips the fuzzy tier for queries longer than this many
	// runes, degrading gracefully instead of blocking on pathological input.
	FuzzyMaxQuery int
	// FuzzyBudget is the wall-clock allowance for the fuzzy tier per query.
	FuzzyBudget time.Duration
}

// DefaultOptions mirror the config defaults.
func DefaultOptions() Options {
	return Options{
		MaxResults:    20,
		FuzzyDistance: 2,
		FuzzyMaxQuery: 64,
		FuzzyBudget:   10 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxResults <= 0 {
		o.MaxResults = d.MaxResults
	}
	if o.FuzzyDistance <= 0 {
		o.FuzzyDistance = d.FuzzyDistance
	}
	if o.FuzzyMaxQuery <= 0 {
		o.FuzzyMaxQuery = d.FuzzyMaxQuery
	}
	if o.FuzzyBudget <= 0 {
		o.FuzzyBudget = d.FuzzyBudget
	}
	return o
}

// Span is a highlighted byte range within the matched field.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match is one ranked query hit. Spans are only populated for matches that
// survive truncation to MaxResults.
type Match struct {
	Record       Record `json:"record"`
	Tier         int    `json:"tier"`
	TitleSpans   []Span `json:"title_spans,omitempty"`
	PreviewSpans []Span `json:"preview_spans,omitempty"`
}

// Result is the outcome of one query evaluation. Gen echoes the generation
// the caller attached; stale generations are discarded by the caller, never
// displayed. Degraded reports that the fuzzy tier was skipped.
type Result struct {
	Query    string  `json:"query"`
	Gen      uint64  `json:"gen"`
	Matches  []Match `json:"matches"`
	Degraded bool    `json:"degraded,omitempty"`
}

// kindRank orders equally-tiered records: module > type > function >
// constant > constructor.
func kindRank(k Kind) int {
	switch k {
	case KindModule:
		return 0
	case KindType:
		return 1
	case KindFunction:
		return 2
	case KindConstant:
		return 3
	case KindConstructor:
		return 4
	default:
		return 5
	}
}

// Query evaluates a raw query against the index and returns a ranked,
// bounded match list. An empty query (after trimming) yields an empty result
// and is not an error. The evaluation is synchronous and read-only, so any
// number of queries may run concurrently against one index.
func (ix *Index) Query(raw string, gen uint64, opts Options) Result {
	opts = opts.withDefaults()
	q := fold(strings.TrimSpace(raw))
	res := Result{Query: q, Gen: gen}
	if q == "" {
		return res
	}

	tiers := make([]int, len(ix.records))
	for i := range tiers {
		tiers[i] = -1
	}

	// Tiers 0-2 via the token-prefix map when the query is a single short
	// token; every record sharing the prefix is at worst a title substring
	// match because tokens come from titles.
	if len(q) <= maxTokenPrefix && len(tokenize(q)) == 1 && tokenize(q)[0] == q {
		for _, id := range ix.prefixes[q] {
			tiers[id] = titleTier(ix.foldedTitles[id], q)
		}
	}

	// Folded scan for whatever the prefix map could not resolve: mid-token
	// title substrings, multi-token queries, and queries longer than the
	// stored prefixes.
	for id, title := range ix.foldedTitles {
		if tiers[id] >= 0 {
			continue
		}
		if t := titleTierChecked(title, q); t >= 0 {
			tiers[id] = t
		}
	}

	// Preview substring fallback for records without a title match.
	for id, preview := range ix.foldedPreviews {
		if tiers[id] >= 0 || preview == "" {
			continue
		}
		if strings.Contains(preview, q) {
			tiers[id] = TierPreviewSubstring
		}
	}

	// Fuzzy tier, under both a length and a time budget.
	if utf8.RuneCountInString(q) > opts.FuzzyMaxQuery {
		res.Degraded = true
	} else {
		deadline := time.Now().Add(opts.FuzzyBudget)
		for id, title := range ix.foldedTitles {
			if tiers[id] >= 0 {
				continue
			}
			if time.Now().After(deadline) {
				res.Degraded = true
				break
			}
			if editDistanceWithin(title, q, opts.FuzzyDistance) {
				tiers[id] = TierFuzzy
			}
		}
	}

	ids := make([]int, 0, 32)
	for id, t := range tiers {
		if t >= 0 {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(a, b int) bool {
		ia, ib := ids[a], ids[b]
		if tiers[ia] != tiers[ib] {
			return tiers[ia] < tiers[ib]
		}
		ra, rb := kindRank(ix.records[ia].Kind), kindRank(ix.records[ib].Kind)
		if ra != rb {
			return ra < rb
		}
		if ix.foldedTitles[ia] != ix.foldedTitles[ib] {
			return ix.foldedTitles[ia] < ix.foldedTitles[ib]
		}
		return ia < ib
	})

	if len(ids) > opts.MaxResults {
		ids = ids[:opts.MaxResults]
	}

	// Highlight spans only for the returned subset, bounding highlight cost
	// by MaxResults rather than corpus size.
	res.Matches = make([]Match, 0, len(ids))
	for _, id := range ids {
		m := Match{Record: ix.records[id], Tier: tiers[id]}
		switch tiers[id] {
		case TierExact, TierFuzzy:
			m.TitleSpans = []Span{{Start: 0, End: len(ix.records[id].Title)}}
		case TierPrefix:
			m.TitleSpans = []Span{{Start: 0, End: len(q)}}
		case TierTitleSubstring:
			if at := strings.Index(ix.foldedTitles[id], q); at >= 0 {
				m.TitleSpans = []Span{{Start: at, End: at + len(q)}}
			}
		case TierPreviewSubstring:
			if at := strings.Index(ix.foldedPreviews[id], q); at >= 0 {
				m.PreviewSpans = []Span{{Start: at, End: at + len(q)}}
			}
		}
		res.Matches = append(res.Matches, m)
	}

	return res
}

// titleTier classifies a title already known to contain q.
func titleTier(title, q string) int {
	if title == q {
		return TierExact
	}
	if strings.HasPrefix(title, q) {
		return TierPrefix
	}
	return TierTitleSubstring
}

// titleTierChecked classifies a title that may not match at all; -1 means no
// title-mode match.
func titleTierChecked(title, q string) int {
	if !strings.Contains(title, q) {
		return -1
	}
	return titleTier(title, q)
}

// editDistanceWithin reports whether the Levenshtein distance between a and
// b is at most max. The inner loop abandons a row as soon as every cell
// exceeds max, so pathological inputs stay cheap.
func editDistanceWithin(a, b string, max int) bool {
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > max {
		return false
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return false
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)] <= max
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
