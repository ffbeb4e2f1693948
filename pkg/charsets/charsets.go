// Package charsets defines the named character sets the browsing
// surface is organized around. A set is either one block, a group of
// blocks, an explicit rune collection, or a general-category property.
package charsets

import (
	"iter"
	"unicode"

	"github.com/virtualritz/glyphana/internal/unicodedata"
)

// Set is a named, membership-testable group of codepoints.
type Set interface {
	// Name is the display name, unique among the default sets.
	Name() string
	// Contains reports membership without enumerating.
	Contains(r rune) bool
	// Runes yields members in ascending codepoint order. Only scalar
	// values are yielded.
	Runes() iter.Seq[rune]
}

// BlockSet is the codepoints of a single Unicode block.
type BlockSet struct {
	name  string
	block unicodedata.Block
}

// NewBlockSet resolves blockName against the block table.
func NewBlockSet(name, blockName string) (BlockSet, bool) {
	b, ok := unicodedata.BlockByName(blockName)
	if !ok {
		return BlockSet{}, false
	}
	return BlockSet{name: name, block: b}, true
}

func (s BlockSet) Name() string { return s.name }

func (s BlockSet) Contains(r rune) bool {
	return r >= s.block.Lo && r <= s.block.Hi
}

func (s BlockSet) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for r := s.block.Lo; r <= s.block.Hi; r++ {
			if !unicodedata.IsScalarValue(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// MultiBlockSet unions several blocks under one name.
type MultiBlockSet struct {
	name   string
	blocks []unicodedata.Block
}

// NewMultiBlockSet resolves each block name; unknown names are skipped
// so the set degrades rather than fails when the block table is older
// than the name list.
func NewMultiBlockSet(name string, blockNames ...string) MultiBlockSet {
	s := MultiBlockSet{name: name}
	for _, bn := range blockNames {
		if b, ok := unicodedata.BlockByName(bn); ok {
			s.blocks = append(s.blocks, b)
		}
	}
	return s
}

func (s MultiBlockSet) Name() string { return s.name }

func (s MultiBlockSet) Contains(r rune) bool {
	for _, b := range s.blocks {
		if r >= b.Lo && r <= b.Hi {
			return true
		}
	}
	return false
}

func (s MultiBlockSet) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, b := range s.blocks {
			for r := b.Lo; r <= b.Hi; r++ {
				if !unicodedata.IsScalarValue(r) {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// RuneSet is an explicit collection, used for user-defined sets.
type RuneSet struct {
	name    string
	members map[rune]struct{}
	order   []rune
}

func NewRuneSet(name string, runes ...rune) *RuneSet {
	s := &RuneSet{name: name, members: make(map[rune]struct{}, len(runes))}
	for _, r := range runes {
		if _, ok := s.members[r]; ok {
			continue
		}
		s.members[r] = struct{}{}
		s.order = append(s.order, r)
	}
	return s
}

func (s *RuneSet) Name() string { return s.name }

func (s *RuneSet) Contains(r rune) bool {
	_, ok := s.members[r]
	return ok
}

func (s *RuneSet) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range s.order {
			if !yield(r) {
				return
			}
		}
	}
}

// propertyRanges are the spans a property set enumerates over. Contains
// is unrestricted; enumeration sticks to ranges where the properties
// actually occur so Runes stays affordable.
var propertyRanges = []unicodedata.Block{
	{Name: "", Lo: 0x0020, Hi: 0x007E},
	{Name: "", Lo: 0x00A0, Hi: 0x024F},
	{Name: "", Lo: 0x0370, Hi: 0x052F},
	{Name: "", Lo: 0x2000, Hi: 0x218F},
	{Name: "", Lo: 0x2190, Hi: 0x22FF},
	{Name: "", Lo: 0x20A0, Hi: 0x20CF},
	{Name: "", Lo: 0x2500, Hi: 0x257F},
	{Name: "", Lo: 0x2600, Hi: 0x26FF},
	{Name: "", Lo: 0x1F300, Hi: 0x1F5FF},
}

// PropertySet selects by general-category predicate.
type PropertySet struct {
	name    string
	matches func(rune) bool
}

func NewPropertySet(name string, matches func(rune) bool) PropertySet {
	return PropertySet{name: name, matches: matches}
}

func (s PropertySet) Name() string { return s.name }

func (s PropertySet) Contains(r rune) bool {
	return s.matches(r)
}

func (s PropertySet) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, span := range propertyRanges {
			for r := span.Lo; r <= span.Hi; r++ {
				if !s.matches(r) {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Defaults returns the built-in sets in display order: property sets
// first, then the grouped and single blocks.
func Defaults() []Set {
	sets := []Set{
		NewPropertySet("Uppercase Letters", func(r rune) bool { return unicode.IsUpper(r) }),
		NewPropertySet("Lowercase Letters", func(r rune) bool { return unicode.IsLower(r) }),
		NewPropertySet("All Letters", func(r rune) bool { return unicode.IsLetter(r) }),
		NewPropertySet("Math Symbols", func(r rune) bool { return unicode.Is(unicode.Sm, r) }),
		NewPropertySet("Currency Symbols", func(r rune) bool { return unicode.Is(unicode.Sc, r) }),
		NewPropertySet("Punctuation", func(r rune) bool { return unicode.IsPunct(r) }),
		NewPropertySet("Decimal Numbers", func(r rune) bool { return unicode.Is(unicode.Nd, r) }),
		NewPropertySet("All Numbers", func(r rune) bool { return unicode.IsNumber(r) }),
		NewPropertySet("All Symbols", func(r rune) bool { return unicode.IsSymbol(r) }),

		NewMultiBlockSet("Latin",
			"Basic Latin", "Latin-1 Supplement", "Latin Extended-A", "Latin Extended-B"),
		NewMultiBlockSet("Emoji",
			"Emoticons", "Miscellaneous Symbols and Pictographs",
			"Supplemental Symbols and Pictographs", "Transport and Map Symbols"),
		NewMultiBlockSet("Arrows",
			"Arrows", "Supplemental Arrows-A", "Supplemental Arrows-B",
			"Supplemental Arrows-C", "Miscellaneous Symbols and Arrows"),
		NewMultiBlockSet("Math",
			"Mathematical Operators", "Supplemental Mathematical Operators",
			"Mathematical Alphanumeric Symbols",
			"Miscellaneous Mathematical Symbols-A",
			"Miscellaneous Mathematical Symbols-B"),
		NewMultiBlockSet("Technical",
			"Miscellaneous Technical", "Control Pictures",
			"Optical Character Recognition"),
		NewMultiBlockSet("Symbols",
			"Miscellaneous Symbols", "Miscellaneous Symbols and Pictographs"),
		NewMultiBlockSet("Music",
			"Musical Symbols", "Byzantine Musical Symbols",
			"Ancient Greek Musical Notation"),
		NewMultiBlockSet("Box Drawing",
			"Box Drawing", "Block Elements", "Geometric Shapes"),
	}
	for _, bn := range []string{"Greek and Coptic", "Cyrillic", "Hebrew", "Arabic"} {
		if s, ok := NewBlockSet(bn, bn); ok {
			sets = append(sets, s)
		}
	}
	return sets
}

// ByName finds a set among sets by display name.
func ByName(sets []Set, name string) (Set, bool) {
	for _, s := range sets {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
