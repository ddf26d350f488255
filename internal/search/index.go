// Package search ranks catalog entries against free-text queries. An Index is
// built once from a snapshot of the catalog and is safe for concurrent reads.
//
// Each query term earns the weight of the best field it matches: a title hit
// is worth TitleWeight, a tag hit (muscle group, equipment, exercise, ...) is
// worth 1. The score is the earned weight over the best possible, so a
// document matching every term in its title scores 1.
//
// Terms match a document token exactly or, when at least MinPrefix runes
// long, as a prefix ("squat" finds "squats"). Text is lower-cased and
// stripped of diacritics before tokenizing.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Defaults applied by NewIndex.
const (
	DefaultTitleWeight = 2.0
	DefaultMinPrefix   = 4
	DefaultK           = 3
)

// Document is one catalog entry.
type Document struct {
	ID    string
	Title string
	Tags  []string
}

// Result is a ranked document.
type Result struct {
	ID    string
	Score float64
}

// Index answers ranked queries over a fixed document set.
type Index interface {
	TopK(query string, k int) []Result
	Len() int
}

type Option func(*config)

type config struct {
	stopwords   map[string]struct{}
	titleWeight float64
	minPrefix   int
}

// WithStopwords drops the given words from documents and queries.
func WithStopwords(words []string) Option {
	return func(c *config) {
		for _, w := range words {
			if w = fold(strings.TrimSpace(w)); w != "" {
				if c.stopwords == nil {
					c.stopwords = make(map[string]struct{}, len(words))
				}
				c.stopwords[w] = struct{}{}
			}
		}
	}
}

// WithTitleWeight sets how much more a title hit counts than a tag hit.
// Weights below 1 are ignored.
func WithTitleWeight(w float64) Option {
	return func(c *config) {
		if w >= 1 {
			c.titleWeight = w
		}
	}
}

// WithMinPrefix sets the shortest term allowed to prefix-match. Zero or less
// disables prefix matching.
func WithMinPrefix(n int) Option {
	return func(c *config) { c.minPrefix = n }
}

type entry struct {
	id    string
	title []string // sorted, unique
	tags  []string // sorted, unique, minus title tokens
	size  int
}

type index struct {
	cfg     config
	entries []entry
}

// NewIndex builds an Index over docs. Documents without any token are
// skipped.
func NewIndex(docs []Document, opts ...Option) Index {
	cfg := config{titleWeight: DefaultTitleWeight, minPrefix: DefaultMinPrefix}
	for _, o := range opts {
		o(&cfg)
	}

	out := make([]entry, 0, len(docs))
	for _, d := range docs {
		title := cfg.tokens(d.Title)
		tags := cfg.tokens(strings.Join(d.Tags, " "))
		for t := range title {
			delete(tags, t)
		}
		if len(title)+len(tags) == 0 {
			continue
		}
		out = append(out, entry{
			id:    d.ID,
			title: sortedKeys(title),
			tags:  sortedKeys(tags),
			size:  len(title) + len(tags),
		})
	}
	return &index{cfg: cfg, entries: out}
}

func (i *index) Len() int { return len(i.entries) }

// TopK returns up to k matching documents, best first. Ties go to the
// smaller document, then to the lower ID. k <= 0 means DefaultK.
func (i *index) TopK(q string, k int) []Result {
	if k <= 0 {
		k = DefaultK
	}
	terms := sortedKeys(i.cfg.tokens(q))
	if len(terms) == 0 || len(i.entries) == 0 {
		return nil
	}
	best := i.cfg.titleWeight * float64(len(terms))

	type hit struct {
		Result
		size int
	}
	var hits []hit
	for _, e := range i.entries {
		var earned float64
		for _, t := range terms {
			switch {
			case i.cfg.has(e.title, t):
				earned += i.cfg.titleWeight
			case i.cfg.has(e.tags, t):
				earned++
			}
		}
		if earned > 0 {
			hits = append(hits, hit{Result{ID: e.id, Score: earned / best}, e.size})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		switch {
		case hits[a].Score != hits[b].Score:
			return hits[a].Score > hits[b].Score
		case hits[a].size != hits[b].size:
			return hits[a].size < hits[b].size
		default:
			return hits[a].ID < hits[b].ID
		}
	})

	out := make([]Result, 0, min(k, len(hits)))
	for _, h := range hits[:min(k, len(hits))] {
		out = append(out, h.Result)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// has reports whether sorted tokens contain t, or a token t prefixes.
func (c config) has(tokens []string, t string) bool {
	n := sort.SearchStrings(tokens, t)
	if n == len(tokens) {
		return false
	}
	if tokens[n] == t {
		return true
	}
	return c.minPrefix > 0 && utf8.RuneCountInString(t) >= c.minPrefix && strings.HasPrefix(tokens[n], t)
}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func (c config) tokens(s string) map[string]struct{} {
	words := wordRE.FindAllString(fold(s), -1)
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := c.stopwords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	return out
}

// fold lower-cases s and removes combining marks, so "Pilátes" == "pilates".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
