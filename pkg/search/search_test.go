package search

import (
	"testing"

	"github.com/virtualritz/glyphana/internal/unicodedata"
	"github.com/virtualritz/glyphana/pkg/catalog"
	"github.com/virtualritz/glyphana/pkg/glyphnames"
	"github.com/virtualritz/glyphana/pkg/skeleton"
)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	cat := catalog.New(catalog.Options{
		Ranges: []catalog.Range{
			{Lo: 0x0000, Hi: 0x024F},  // Latin
			{Lo: 0x0370, Hi: 0x03FF},  // Greek
			{Lo: 0x2000, Hi: 0x206F},  // General Punctuation
			{Lo: 0x20A0, Hi: 0x20CF},  // Currency Symbols
			{Lo: 0xFB00, Hi: 0xFB4F},  // Alphabetic Presentation Forms
			{Lo: 0x1F600, Hi: 0x1F64F}, // Emoticons
		},
	})
	names, err := glyphnames.New(cat)
	if err != nil {
		t.Fatalf("glyphnames.New: %v", err)
	}
	return NewEvaluator(cat, names, skeleton.New(cat), DefaultConfig())
}

func findMatch(res Result, r rune) (Match, bool) {
	for _, m := range res.Matches {
		if m.Record.Rune == r {
			return m, true
		}
	}
	return Match{}, false
}

func TestEmptyQuery(t *testing.T) {
	ev := testEvaluator(t)
	for _, raw := range []string{"", "   ", "\t\n"} {
		res := ev.Evaluate(NewQuery(raw, false))
		if len(res.Matches) != 0 || res.Partial() {
			t.Errorf("query %q: want empty result, got %d matches, dropped %v",
				raw, len(res.Matches), res.Dropped)
		}
	}
}

func TestCodepointLiteralProbes(t *testing.T) {
	ev := testEvaluator(t)
	cases := []struct {
		term string
		want rune
	}{
		{"U+0041", 'A'},
		{"u+41", 'A'},
		{"0x41", 'A'},
		{"41", 0x41},
		{"20ac", 0x20AC},
		{"1F600", 0x1F600},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			res := ev.Evaluate(NewQuery(tc.term, false))
			m, ok := findMatch(res, tc.want)
			if !ok {
				t.Fatalf("no match for %q at %U", tc.term, tc.want)
			}
			if m.Score != 1.0 {
				t.Errorf("score = %v, want 1.0", m.Score)
			}
			if !m.Sources.Has(SourceContent) {
				t.Errorf("sources = %v, want content", m.Sources)
			}
		})
	}
}

func TestDecimalAndHexBothProbed(t *testing.T) {
	ev := testEvaluator(t)
	// "65" is both hex 0x65 ('e') and decimal 65 ('A').
	res := ev.Evaluate(NewQuery("65", false))
	if _, ok := findMatch(res, 'e'); !ok {
		t.Error("want hex interpretation U+0065 in results")
	}
	if _, ok := findMatch(res, 'A'); !ok {
		t.Error("want decimal interpretation U+0041 in results")
	}
}

func TestInvalidLiteralsIgnored(t *testing.T) {
	ev := testEvaluator(t)
	// The surrogate value must not panic or surface a match; the term
	// falls through to name matching and finds nothing.
	res := ev.Evaluate(NewQuery("U+D800", false))
	if len(res.Matches) != 0 {
		t.Errorf("surrogate literal produced %d matches", len(res.Matches))
	}
}

func TestSingleCharContentProbe(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("A", true))
	m, ok := findMatch(res, 'A')
	if !ok {
		t.Fatal("no match for 'A'")
	}
	if m.Score != 1.0 || !m.Sources.Has(SourceContent) {
		t.Errorf("got score %v sources %v", m.Score, m.Sources)
	}
	// Content hits outrank name substring hits at the top of the list.
	if res.Matches[0].Record.Rune != 'A' {
		t.Errorf("top match = %U, want U+0041", res.Matches[0].Record.Rune)
	}
}

func TestSingleCharNeverReadAsLiteral(t *testing.T) {
	ev := testEvaluator(t)
	cases := []struct {
		term    string
		want    rune // the character itself
		literal rune // the numeric reading that must not win
	}{
		{"A", 'A', 0x000A},
		{"a", 'a', 0x000A},
		{"5", '5', 0x0005},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			res := ev.Evaluate(NewQuery(tc.term, true))
			if len(res.Matches) == 0 {
				t.Fatal("no matches")
			}
			if top := res.Matches[0].Record.Rune; top != tc.want {
				t.Fatalf("top match = %U, want %U", top, tc.want)
			}
			if m, ok := findMatch(res, tc.literal); ok {
				if m.Score == 1.0 && m.Sources.Has(SourceContent) {
					t.Errorf("%U scored as a content hit", tc.literal)
				}
			}
		})
	}
}

func TestSingleCharBlockFallback(t *testing.T) {
	// Catalog covers Latin only; probing a Greek character falls back to
	// listing its whole block, which is empty here, so instead probe with
	// a catalog that holds part of the block.
	cat := catalog.New(catalog.Options{
		Ranges: []catalog.Range{{Lo: 0x0000, Hi: 0x007F}, {Lo: 0x0391, Hi: 0x039A}},
	})
	names, err := glyphnames.New(cat)
	if err != nil {
		t.Fatalf("glyphnames.New: %v", err)
	}
	ev := NewEvaluator(cat, names, nil, DefaultConfig())

	// U+03B1 (alpha) is not in the catalog; its block overlaps it.
	res := ev.Evaluate(NewQuery("α", true))
	if len(res.Matches) == 0 {
		t.Fatal("want block fallback matches")
	}
	for _, m := range res.Matches {
		if m.Record.Block != "Greek and Coptic" {
			t.Errorf("match %U from block %q, want Greek and Coptic", m.Record.Rune, m.Record.Block)
		}
		if m.Score != blockFallbackScore {
			t.Errorf("score = %v, want %v", m.Score, blockFallbackScore)
		}
	}
}

func TestNameExactAndSubstring(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("euro sign", false))
	if res.Partial() {
		t.Fatalf("dropped terms: %v", res.Dropped)
	}
	m, ok := findMatch(res, 0x20AC)
	if !ok {
		t.Fatal("no match for EURO SIGN")
	}
	if !m.Sources.Has(SourceName) {
		t.Errorf("sources = %v, want name", m.Sources)
	}
}

func TestGlyphDatabaseLookup(t *testing.T) {
	ev := testEvaluator(t)
	// "germandbls" exists only in the glyph-name database.
	res := ev.Evaluate(NewQuery("germandbls", false))
	m, ok := findMatch(res, 0x00DF)
	if !ok {
		t.Fatal("no match for U+00DF")
	}
	if m.Score != 1.0 || !m.Sources.Has(SourceDatabase) {
		t.Errorf("got score %v sources %v", m.Score, m.Sources)
	}
}

func TestSkeletonLookup(t *testing.T) {
	ev := testEvaluator(t)
	// Searching the plain letter surfaces its diacritic variants via the
	// skeleton index.
	res := ev.Evaluate(NewQuery("e", true))
	m, ok := findMatch(res, 0x00E9)
	if !ok {
		t.Fatal("no skeleton match for U+00E9")
	}
	if !m.Sources.Has(SourceSkeleton) {
		t.Errorf("sources = %v, want skeleton", m.Sources)
	}
}

func TestMultiTermIntersection(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("grinning face", false))
	if res.Partial() {
		t.Fatalf("dropped terms: %v", res.Dropped)
	}
	if _, ok := findMatch(res, 0x1F600); !ok {
		t.Fatal("no match for GRINNING FACE")
	}
	// Every match must contain both terms in its name.
	for _, m := range res.Matches {
		if len(m.Terms) != 2 {
			t.Errorf("%U matched terms %v, want both", m.Record.Rune, m.Terms)
		}
	}
	// A face that is not grinning must not appear.
	if _, ok := findMatch(res, 0x1F610); ok {
		t.Error("NEUTRAL FACE should not match")
	}
}

func TestEmptyTermDropped(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("euro zzzzqqqq", false))
	if !res.Partial() {
		t.Fatal("want partial result")
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "zzzzqqqq" {
		t.Errorf("dropped = %v", res.Dropped)
	}
	if _, ok := findMatch(res, 0x20AC); !ok {
		t.Error("surviving term should still match EURO SIGN")
	}
}

func TestAllTermsDropped(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("zzzzqqqq xxxxjjjj", false))
	if len(res.Matches) != 0 {
		t.Errorf("want no matches, got %d", len(res.Matches))
	}
	if len(res.Dropped) != 2 {
		t.Errorf("dropped = %v, want both terms", res.Dropped)
	}
}

func TestTermCapReportedAsDropped(t *testing.T) {
	cat := catalog.New(catalog.Options{
		Ranges: []catalog.Range{{Lo: 0x0000, Hi: 0x024F}, {Lo: 0x20A0, Hi: 0x20CF}},
	})
	names, err := glyphnames.New(cat)
	if err != nil {
		t.Fatalf("glyphnames.New: %v", err)
	}
	ev := NewEvaluator(cat, names, nil, Config{MaxTerms: 2})

	res := ev.Evaluate(NewQuery("latin letter euro", false))
	if !res.Partial() {
		t.Fatal("want partial result when terms are capped")
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "euro" {
		t.Errorf("dropped = %v, want the capped term", res.Dropped)
	}
	// The capped term takes no part in the intersection.
	if _, ok := findMatch(res, 0x20AC); ok {
		t.Error("EURO SIGN should not match on the first two terms alone")
	}
}

func TestFuzzyFallback(t *testing.T) {
	ev := testEvaluator(t)
	// Misspelled term with no exact or substring hit anywhere.
	res := ev.Evaluate(NewQuery("germandblz", false))
	m, ok := findMatch(res, 0x00DF)
	if !ok {
		t.Fatal("no fuzzy match for U+00DF")
	}
	if !m.Sources.Has(SourceFuzzy) {
		t.Errorf("sources = %v, want fuzzy", m.Sources)
	}
	if m.Score < DefaultFuzzyThreshold || m.Score >= 1.0 {
		t.Errorf("score = %v, want in [%v, 1)", m.Score, DefaultFuzzyThreshold)
	}
}

func TestFuzzyNotUsedWhenExactHits(t *testing.T) {
	ev := testEvaluator(t)
	res := ev.Evaluate(NewQuery("euro", false))
	for _, m := range res.Matches {
		if m.Sources.Has(SourceFuzzy) {
			t.Errorf("%U carries fuzzy source despite substring hits", m.Record.Rune)
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	ev := testEvaluator(t)
	first := ev.Evaluate(NewQuery("face", false))
	for i := 0; i < 5; i++ {
		again := ev.Evaluate(NewQuery("face", false))
		if len(again.Matches) != len(first.Matches) {
			t.Fatalf("run %d: %d matches, want %d", i, len(again.Matches), len(first.Matches))
		}
		for j := range first.Matches {
			if again.Matches[j].Record.Rune != first.Matches[j].Record.Rune {
				t.Fatalf("run %d: order diverges at %d", i, j)
			}
		}
	}
}

func TestRankOrdering(t *testing.T) {
	rec := func(r rune) catalog.Record { return catalog.Record{Rune: r} }
	matches := []Match{
		{Record: rec('c'), Score: 0.5, Sources: SourceSet(0).Add(SourceFuzzy)},
		{Record: rec('b'), Score: 1.0, Sources: SourceSet(0).Add(SourceName)},
		{Record: rec('a'), Score: 1.0, Sources: SourceSet(0).Add(SourceContent)},
		{Record: rec('d'), Score: 0.5, Sources: SourceSet(0).Add(SourceFuzzy)},
	}
	Rank(matches)
	want := []rune{'a', 'b', 'c', 'd'}
	for i, r := range want {
		if matches[i].Record.Rune != r {
			t.Errorf("position %d = %q, want %q", i, matches[i].Record.Rune, r)
		}
	}
}

func TestScorer(t *testing.T) {
	cases := []struct {
		query, candidate string
		caseSensitive    bool
		want             float64
	}{
		{"abc", "abc", true, 1.0},
		{"ABC", "abc", false, 1.0},
		{"ABC", "abc", true, 0.0},
		{"", "abc", true, 0.0},
		{"abc", "", true, 0.0},
		{"abcd", "abcx", true, 0.75},
	}
	for _, tc := range cases {
		got := Score(tc.query, tc.candidate, tc.caseSensitive)
		if got != tc.want {
			t.Errorf("Score(%q, %q, %v) = %v, want %v",
				tc.query, tc.candidate, tc.caseSensitive, got, tc.want)
		}
	}
}

func TestScorerReusable(t *testing.T) {
	s := NewScorer()
	first := s.Score("kappa", "KAPPA", false)
	for i := 0; i < 3; i++ {
		if got := s.Score("kappa", "KAPPA", false); got != first {
			t.Fatalf("score changed across calls: %v vs %v", got, first)
		}
	}
	if first != 1.0 {
		t.Errorf("folded identical strings score %v, want 1.0", first)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	cat := catalog.New(catalog.Options{
		Ranges: []catalog.Range{{Lo: 0x0000, Hi: 0x024F}, {Lo: 0x0370, Hi: 0x03FF}},
	})
	names, err := glyphnames.New(cat)
	if err != nil {
		b.Fatalf("glyphnames.New: %v", err)
	}
	ev := NewEvaluator(cat, names, skeleton.New(cat), DefaultConfig())
	q := NewQuery("greek small letter", false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev.Evaluate(q)
	}
}

func BenchmarkScorer(b *testing.B) {
	s := NewScorer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Score("germandblz", "LATIN SMALL LETTER SHARP S", false)
	}
}

func TestBlockForKnownRanges(t *testing.T) {
	cases := []struct {
		r    rune
		want string
	}{
		{'A', "Basic Latin"},
		{0x03B1, "Greek and Coptic"},
		{0x1F600, "Emoticons"},
	}
	for _, tc := range cases {
		b, ok := unicodedata.BlockFor(tc.r)
		if !ok || b.Name != tc.want {
			t.Errorf("BlockFor(%U) = %q (%v), want %q", tc.r, b.Name, ok, tc.want)
		}
	}
}
