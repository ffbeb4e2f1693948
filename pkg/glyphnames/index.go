// Package glyphnames indexes the Adobe glyph list: external glyph names
// mapped to the catalog codepoints they denote. Ligature names map many
// codepoints to one name, and a codepoint may carry several aliases.
// The index is built once next to the catalog and is immutable afterwards.
package glyphnames

import (
	"iter"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/virtualritz/glyphana/internal/unicodedata"
	"github.com/virtualritz/glyphana/internal/utils"
	"github.com/virtualritz/glyphana/pkg/catalog"
)

// Entry pairs one glyph name with the codepoints it maps to.
type Entry struct {
	Name  string
	Runes []rune
}

// Index is the glyph-name database. Construct with New.
type Index struct {
	cat     *catalog.Catalog
	entries []Entry
	byExact map[string][]int32 // exact name -> entry indices
	trie    *patricia.Trie     // folded name -> []int32 entry indices
	byRune  map[rune][]string  // codepoint -> names, sorted
}

// New parses the embedded glyph list and builds the index against cat.
// Entries referencing codepoints absent from the catalog are skipped so
// the index never hands out a codepoint the catalog cannot resolve.
// A parse failure is fatal: the engine has no degraded mode without its
// name corpus.
func New(cat *catalog.Catalog) (*Index, error) {
	parsed, err := unicodedata.ParseGlyphList()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		cat:     cat,
		byExact: make(map[string][]int32),
		trie:    patricia.NewTrie(),
		byRune:  make(map[rune][]string),
	}

	for _, e := range parsed {
		idx.add(e.Name, e.Runes)
	}

	// Colloquial aliases ride along as extra database names.
	for _, e := range unicodedata.AliasEntries() {
		idx.add(e.Name, e.Runes)
	}

	log.Debugf("glyph name index: %d entries, %d named codepoints", len(idx.entries), len(idx.byRune))
	return idx, nil
}

func (idx *Index) add(name string, runes []rune) {
	// Referential integrity: every codepoint an entry hands out must
	// resolve in the catalog.
	for _, r := range runes {
		if _, ok := idx.cat.Lookup(r); !ok {
			return
		}
	}

	i := int32(len(idx.entries))
	idx.entries = append(idx.entries, Entry{Name: name, Runes: runes})
	idx.byExact[name] = append(idx.byExact[name], i)

	folded := patricia.Prefix(utils.FoldString(name))
	if item := idx.trie.Get(folded); item != nil {
		idx.trie.Set(folded, append(item.([]int32), i))
	} else {
		idx.trie.Insert(folded, []int32{i})
	}

	for _, r := range runes {
		names := idx.byRune[r]
		if !containsString(names, name) {
			idx.byRune[r] = insertSorted(names, name)
		}
	}
}

// ByExactName returns the records of every codepoint mapped by a name
// equal to name. Case-insensitive mode folds both sides using simple case
// folding.
func (idx *Index) ByExactName(name string, caseSensitive bool) []catalog.Record {
	var hits []int32
	if caseSensitive {
		hits = idx.byExact[name]
	} else if item := idx.trie.Get(patricia.Prefix(utils.FoldString(name))); item != nil {
		hits = item.([]int32)
	}
	return idx.collect(hits)
}

// BySubstring returns the records of every codepoint whose glyph name
// contains fragment.
func (idx *Index) BySubstring(fragment string, caseSensitive bool) []catalog.Record {
	var hits []int32
	for i := range idx.substringIndices(fragment, caseSensitive) {
		hits = append(hits, i)
	}
	return idx.collect(hits)
}

// SubstringEntries iterates the entries whose name contains fragment, in
// insertion order. Callers that need per-name scoring use this instead of
// BySubstring, which flattens to deduplicated records.
func (idx *Index) SubstringEntries(fragment string, caseSensitive bool) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range idx.substringIndices(fragment, caseSensitive) {
			if !yield(idx.entries[i]) {
				return
			}
		}
	}
}

func (idx *Index) substringIndices(fragment string, caseSensitive bool) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if fragment == "" {
			return
		}
		for i, e := range idx.entries {
			if matchSubstring(e.Name, fragment, caseSensitive) {
				if !yield(int32(i)) {
					return
				}
			}
		}
	}
}

// ByPrefix returns the records of every codepoint whose folded glyph name
// starts with prefix. Backed by a subtree visit on the patricia trie.
func (idx *Index) ByPrefix(prefix string) []catalog.Record {
	var hits []int32
	err := idx.trie.VisitSubtree(patricia.Prefix(utils.FoldString(prefix)), func(p patricia.Prefix, item patricia.Item) error {
		hits = append(hits, item.([]int32)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting glyph name trie: %v", err)
		return nil
	}
	return idx.collect(hits)
}

// AllNames iterates (name, codepoints) pairs in insertion order. This is
// the corpus the fuzzy scorer runs against.
func (idx *Index) AllNames() iter.Seq2[string, []rune] {
	return func(yield func(string, []rune) bool) {
		for _, e := range idx.entries {
			if !yield(e.Name, e.Runes) {
				return
			}
		}
	}
}

// NamesFor returns the glyph names attached to r, sorted, or nil.
func (idx *Index) NamesFor(r rune) []string {
	return idx.byRune[r]
}

// Size returns the number of name entries.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// collect resolves entry indices to records, deduplicated by codepoint
// and sorted ascending for deterministic output.
func (idx *Index) collect(hits []int32) []catalog.Record {
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[rune]bool)
	var records []catalog.Record
	for _, i := range hits {
		for _, r := range idx.entries[i].Runes {
			if seen[r] {
				continue
			}
			seen[r] = true
			if rec, ok := idx.cat.Lookup(r); ok {
				records = append(records, rec)
			}
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Rune < records[j].Rune })
	return records
}

func matchSubstring(name, fragment string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(name, fragment)
	}
	return utils.ContainsFold(name, fragment)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}
