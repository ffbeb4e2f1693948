package search

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/virtualritz/glyphana/internal/unicodedata"
	"github.com/virtualritz/glyphana/internal/utils"
	"github.com/virtualritz/glyphana/pkg/catalog"
	"github.com/virtualritz/glyphana/pkg/glyphnames"
	"github.com/virtualritz/glyphana/pkg/skeleton"
)

const (
	// DefaultFuzzyThreshold is the acceptance bound for fuzzy fallback
	// hits. 0.6 favors precision over recall for short queries.
	DefaultFuzzyThreshold = 0.6

	// DefaultMaxTerms bounds evaluation cost per query; the fuzzy pass
	// is linear in terms × corpus size.
	DefaultMaxTerms = 8

	// blockFallbackScore is assigned when a single-character probe misses
	// the catalog and falls back to listing the character's whole block.
	blockFallbackScore = 0.75

	// maxBareHexDigits caps bare hex literals, matching U+10FFFF.
	maxBareHexDigits = 6
)

// Match is one ranked result: a catalog record plus which terms and
// indices produced it and its best score in [0,1].
type Match struct {
	Record  catalog.Record
	Score   float64
	Sources SourceSet
	// Terms holds the indices into Query.Terms that this codepoint
	// matched. With AND semantics this is every surviving term.
	Terms []int
}

// Result is the outcome of one evaluation. Dropped lists terms that did
// not take part in the intersection: terms that matched nothing, and
// terms beyond the evaluator's term cap.
type Result struct {
	Matches []Match
	Dropped []string
}

// Partial reports whether any term was dropped.
func (r Result) Partial() bool {
	return len(r.Dropped) > 0
}

// Config tunes the evaluator.
type Config struct {
	FuzzyThreshold float64
	MaxTerms       int
}

// DefaultConfig returns the evaluator defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: DefaultFuzzyThreshold,
		MaxTerms:       DefaultMaxTerms,
	}
}

// Evaluator runs queries against the immutable indices. It is cheap to
// construct; the indices it borrows are shared read-only.
type Evaluator struct {
	cat    *catalog.Catalog
	names  *glyphnames.Index
	skel   *skeleton.Index
	cfg    Config
	scorer *Scorer
}

// NewEvaluator wires an evaluator over the given indices. skel may be
// nil, which disables skeleton lookups.
func NewEvaluator(cat *catalog.Catalog, names *glyphnames.Index, skel *skeleton.Index, cfg Config) *Evaluator {
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = DefaultMaxTerms
	}
	return &Evaluator{
		cat:    cat,
		names:  names,
		skel:   skel,
		cfg:    cfg,
		scorer: NewScorer(),
	}
}

// hit accumulates the best score and source union for one codepoint
// within one term.
type hit struct {
	score   float64
	sources SourceSet
}

type termHits map[rune]*hit

func (th termHits) add(r rune, score float64, source Source) {
	h, ok := th[r]
	if !ok {
		th[r] = &hit{score: score, sources: SourceSet(0).Add(source)}
		return
	}
	if score > h.score {
		h.score = score
	}
	h.sources = h.sources.Add(source)
}

// Evaluate runs the query: OR across indices within a term, AND across
// terms, with empty terms dropped rather than emptying the result. An
// empty result is a normal outcome, never an error.
func (e *Evaluator) Evaluate(q Query) Result {
	if q.Empty() {
		return Result{}
	}

	var (
		perTerm   []termHits
		termIndex []int
		dropped   []string
	)
	terms := q.Terms
	if len(terms) > e.cfg.MaxTerms {
		log.Warnf("query has %d terms, evaluating first %d", len(terms), e.cfg.MaxTerms)
		dropped = append(dropped, terms[e.cfg.MaxTerms:]...)
		terms = terms[:e.cfg.MaxTerms]
	}
	for i, term := range terms {
		hits := e.evalTerm(term, q.CaseSensitive)
		if len(hits) == 0 {
			dropped = append(dropped, term)
			continue
		}
		perTerm = append(perTerm, hits)
		termIndex = append(termIndex, i)
	}
	if len(perTerm) == 0 {
		return Result{Dropped: dropped}
	}

	// Intersect surviving terms; keep the max score and source union.
	matches := make([]Match, 0, len(perTerm[0]))
	for r, first := range perTerm[0] {
		score := first.score
		sources := first.sources
		inAll := true
		for _, th := range perTerm[1:] {
			h, ok := th[r]
			if !ok {
				inAll = false
				break
			}
			if h.score > score {
				score = h.score
			}
			sources |= h.sources
		}
		if !inAll {
			continue
		}
		rec, ok := e.cat.Lookup(r)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Record:  rec,
			Score:   score,
			Sources: sources,
			Terms:   termIndex,
		})
	}

	Rank(matches)
	return Result{Matches: matches, Dropped: dropped}
}

// evalTerm collects the OR of all index hits for one term.
func (e *Evaluator) evalTerm(term string, caseSensitive bool) termHits {
	hits := make(termHits)

	// (a) single-character content probe, always case-sensitive. A lone
	// character means the glyph itself and is never read as a codepoint
	// value, so "A" resolves to U+0041 rather than hex 0xA.
	if utf8.RuneCountInString(term) == 1 {
		r, _ := utf8.DecodeRuneInString(term)
		if _, ok := e.cat.Lookup(r); ok {
			hits.add(r, 1.0, SourceContent)
		} else if block, ok := unicodedata.BlockFor(r); ok {
			// Unknown character: fall back to its whole block.
			for rec := range e.cat.ByBlock(block.Name) {
				hits.add(rec.Rune, blockFallbackScore, SourceContent)
			}
		}
	} else {
		// (b) codepoint-value probe for multi-character terms.
		for _, r := range parseCodepointLiteral(term) {
			if _, ok := e.cat.Lookup(r); ok {
				hits.add(r, 1.0, SourceContent)
			}
		}
	}

	// (c) exact and substring lookups on canonical names, the glyph-name
	// database, and the skeleton index.
	e.matchCatalogNames(term, caseSensitive, hits)
	e.matchGlyphNames(term, caseSensitive, hits)
	if e.skel != nil {
		for _, rec := range e.skel.ByExactSkeleton(term, caseSensitive) {
			hits.add(rec.Rune, 1.0, SourceSkeleton)
		}
	}

	// (d) fuzzy fallback only when everything above came up empty.
	if len(hits) == 0 {
		e.matchFuzzy(term, caseSensitive, hits)
	}

	return hits
}

func (e *Evaluator) matchCatalogNames(term string, caseSensitive bool, hits termHits) {
	needle := term
	if !caseSensitive {
		needle = utils.FoldString(term)
	}
	termLen := utf8.RuneCountInString(term)

	for rec := range e.cat.All() {
		if rec.Name == "" {
			continue
		}
		name := rec.Name
		if !caseSensitive {
			name = utils.FoldString(name)
		}
		if name == needle {
			hits.add(rec.Rune, 1.0, SourceName)
		} else if strings.Contains(name, needle) {
			hits.add(rec.Rune, substringScore(termLen, utf8.RuneCountInString(rec.Name)), SourceName)
		}
	}
}

func (e *Evaluator) matchGlyphNames(term string, caseSensitive bool, hits termHits) {
	for _, rec := range e.names.ByExactName(term, caseSensitive) {
		hits.add(rec.Rune, 1.0, SourceDatabase)
	}

	termLen := utf8.RuneCountInString(term)
	for entry := range e.names.SubstringEntries(term, caseSensitive) {
		score := substringScore(termLen, utf8.RuneCountInString(entry.Name))
		for _, r := range entry.Runes {
			hits.add(r, score, SourceDatabase)
		}
	}
}

func (e *Evaluator) matchFuzzy(term string, caseSensitive bool, hits termHits) {
	for rec := range e.cat.All() {
		if rec.Name == "" {
			continue
		}
		if score := e.scorer.Score(term, rec.Name, caseSensitive); score >= e.cfg.FuzzyThreshold {
			hits.add(rec.Rune, score, SourceFuzzy)
		}
	}
	for name, runes := range e.names.AllNames() {
		score := e.scorer.Score(term, name, caseSensitive)
		if score < e.cfg.FuzzyThreshold {
			continue
		}
		for _, r := range runes {
			hits.add(r, score, SourceFuzzy)
		}
	}
}

// substringScore grades a substring hit by how much of the name the term
// covers, so tighter names rank higher while staying below exact hits.
func substringScore(termLen, nameLen int) float64 {
	if nameLen <= 0 || termLen >= nameLen {
		return 1.0
	}
	return float64(termLen) / float64(nameLen)
}

// parseCodepointLiteral interprets term as a codepoint value: U+XXXX,
// 0xXXXX, bare hex up to six digits, or decimal. Values outside the
// scalar range or in the surrogate gap contribute nothing; the term then
// simply falls through to name matching.
func parseCodepointLiteral(term string) []rune {
	var candidates []rune

	add := func(v uint64) {
		r := rune(v)
		if !unicodedata.IsScalarValue(r) {
			return
		}
		for _, c := range candidates {
			if c == r {
				return
			}
		}
		candidates = append(candidates, r)
	}

	lower := strings.ToLower(term)
	if hex, ok := strings.CutPrefix(lower, "u+"); ok {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			add(v)
		}
		return candidates
	}
	if hex, ok := strings.CutPrefix(lower, "0x"); ok {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			add(v)
		}
		return candidates
	}

	if len(lower) <= maxBareHexDigits && isHexString(lower) {
		if v, err := strconv.ParseUint(lower, 16, 32); err == nil {
			add(v)
		}
	}
	if isDecimalString(term) {
		if v, err := strconv.ParseUint(term, 10, 32); err == nil {
			add(v)
		}
	}
	return candidates
}

func isHexString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func isDecimalString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Rank orders matches in place: score descending, then index priority
// (content, name, database, skeleton, fuzzy), then codepoint ascending.
// The key is total, so equal inputs always produce equal orderings.
func Rank(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		bi, bj := matches[i].Sources.Best(), matches[j].Sources.Best()
		if bi != bj {
			return bi < bj
		}
		return matches[i].Record.Rune < matches[j].Record.Rune
	})
}
