// Package skeleton provides accent-insensitive lookup: characters are
// indexed by their skeleton, the base form left after canonical
// decomposition strips combining marks. Querying "e" finds e, é, è and
// friends. The index follows the same contract shape as the glyph-name
// index and is immutable after construction.
package skeleton

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/virtualritz/glyphana/internal/utils"
	"github.com/virtualritz/glyphana/pkg/catalog"
)

// Skeleton returns the canonical-decomposition skeleton of s: NFD
// followed by removal of nonspacing marks.
func Skeleton(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Index maps skeleton strings to the catalog codepoints sharing them.
type Index struct {
	cat      *catalog.Catalog
	byRaw    map[string][]rune
	byFolded map[string][]rune
}

// New builds the skeleton index over every record of cat.
func New(cat *catalog.Catalog) *Index {
	idx := &Index{
		cat:      cat,
		byRaw:    make(map[string][]rune),
		byFolded: make(map[string][]rune),
	}
	for rec := range cat.All() {
		sk := Skeleton(string(rec.Rune))
		if sk == "" {
			// Pure combining marks decompose to nothing.
			continue
		}
		idx.byRaw[sk] = append(idx.byRaw[sk], rec.Rune)
		folded := utils.FoldString(sk)
		if folded != sk {
			idx.byFolded[folded] = append(idx.byFolded[folded], rec.Rune)
		}
	}
	return idx
}

// ByExactSkeleton returns the records of every codepoint whose skeleton
// equals the skeleton of term. Case-insensitive mode folds both sides
// with simple folding.
func (idx *Index) ByExactSkeleton(term string, caseSensitive bool) []catalog.Record {
	sk := Skeleton(term)
	if sk == "" {
		return nil
	}

	var runes []rune
	if caseSensitive {
		runes = idx.byRaw[sk]
	} else {
		folded := utils.FoldString(sk)
		// Folded buckets only hold entries whose skeleton changed under
		// folding; raw buckets cover the rest.
		runes = append(runes, idx.byRaw[folded]...)
		runes = append(runes, idx.byFolded[folded]...)
	}

	if len(runes) == 0 {
		return nil
	}
	records := make([]catalog.Record, 0, len(runes))
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			continue
		}
		seen[r] = true
		if rec, ok := idx.cat.Lookup(r); ok {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Rune < records[j].Rune })
	return records
}

// Size returns the number of distinct raw skeletons.
func (idx *Index) Size() int {
	return len(idx.byRaw)
}
