// Package catalog is the core character table: every assigned Unicode
// scalar value in the configured ranges together with its precomputed
// attributes. Built once at startup, immutable afterwards, and safe to
// share by reference across any number of concurrent readers.
package catalog

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"github.com/virtualritz/glyphana/internal/unicodedata"
)

// Record holds the precomputed attributes of one Unicode scalar value.
// Records are immutable after catalog construction.
type Record struct {
	Rune     rune
	Name     string // canonical Unicode name, or friendly override; empty if unnamed
	Category string // two-letter general category code, e.g. "Lu"
	UTF8Len  int    // encoded byte length, 1..4
	Block    string // owning Unicode block name, empty between blocks
}

// Class returns the major general category class: one of
// L, M, N, P, S, Z, C.
func (r Record) Class() string {
	if r.Category == "" {
		return ""
	}
	return r.Category[:1]
}

// Hex formats the codepoint as U+XXXX.
func (r Record) Hex() string {
	const digits = "0123456789ABCDEF"
	buf := make([]byte, 0, 8)
	v := uint32(r.Rune)
	for shift := 28; shift >= 0; shift -= 4 {
		d := (v >> uint(shift)) & 0xF
		if d == 0 && len(buf) == 0 && shift >= 16 {
			continue
		}
		buf = append(buf, digits[d])
	}
	for len(buf) < 4 {
		buf = append([]byte{'0'}, buf...)
	}
	return "U+" + string(buf)
}

// Options controls catalog construction.
type Options struct {
	// Ranges limits construction to the given codepoint ranges.
	// Empty means the whole scalar value space.
	Ranges []Range
	// IncludePrivateUse keeps Co codepoints, which have no names and
	// inflate the table considerably. Off by default.
	IncludePrivateUse bool
}

// Range is an inclusive codepoint range.
type Range struct {
	Lo, Hi rune
}

// Catalog is the immutable character table. The zero value is not usable;
// construct with New.
type Catalog struct {
	records []Record      // ascending by codepoint
	index   map[rune]int32
}

// categoryCodes lists the two-letter general categories in a fixed order
// so classification is deterministic. The tables are disjoint, so the
// first hit is the only hit.
var categoryCodes = []string{
	"Cc", "Cf", "Co", "Cs",
	"Ll", "Lm", "Lo", "Lt", "Lu",
	"Mc", "Me", "Mn",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Pe", "Pf", "Pi", "Po", "Ps",
	"Sc", "Sk", "Sm", "So",
	"Zl", "Zp", "Zs",
}

// categoryOf returns the two-letter general category of r, or "" when r
// is unassigned.
func categoryOf(r rune) string {
	for _, code := range categoryCodes {
		if unicode.Is(unicode.Categories[code], r) {
			return code
		}
	}
	return ""
}

// nameOf resolves the display/search name of r: friendly overrides first,
// then the canonical Unicode name. Placeholder names the name table uses
// for large ideograph ranges (angle-bracketed) count as unnamed.
func nameOf(r rune) string {
	if name, ok := unicodedata.SpecialName(r); ok {
		return name
	}
	name := runenames.Name(r)
	if strings.HasPrefix(name, "<") {
		return ""
	}
	return name
}

// New builds the catalog from the static Unicode tables. Construction is
// deterministic and pure: for a fixed Unicode version the output is
// byte-identical. Unassigned codepoints and surrogates are omitted;
// looking one up later is a normal negative result, not an error.
func New(opts Options) *Catalog {
	ranges := opts.Ranges
	if len(ranges) == 0 {
		ranges = []Range{{0, unicode.MaxRune}}
	}

	c := &Catalog{
		index: make(map[rune]int32),
	}

	for _, rng := range ranges {
		for r := rng.Lo; r <= rng.Hi; r++ {
			if !unicodedata.IsScalarValue(r) {
				continue
			}
			cat := categoryOf(r)
			if cat == "" {
				continue
			}
			if cat == "Co" && !opts.IncludePrivateUse {
				continue
			}
			rec := Record{
				Rune:     r,
				Name:     nameOf(r),
				Category: cat,
				UTF8Len:  utf8.RuneLen(r),
			}
			if block, ok := unicodedata.BlockFor(r); ok {
				rec.Block = block.Name
			}
			c.index[r] = int32(len(c.records))
			c.records = append(c.records, rec)
		}
	}

	return c
}

// Lookup returns the record for the given codepoint. The second return is
// false when the codepoint is unassigned or outside the catalog ranges.
func (c *Catalog) Lookup(r rune) (Record, bool) {
	i, ok := c.index[r]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Size returns the number of records in the catalog.
func (c *Catalog) Size() int {
	return len(c.records)
}

// All iterates every record in ascending codepoint order. The sequence is
// restartable: each range statement walks the table from the start.
func (c *Catalog) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range c.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// ByCategory iterates records whose general category matches code. A
// single-letter code matches the whole major class, so "L" covers Lu, Ll,
// Lt, Lm and Lo.
func (c *Catalog) ByCategory(code string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range c.records {
			if rec.Category == code || (len(code) == 1 && rec.Class() == code) {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// ByBlock iterates records belonging to the named Unicode block.
func (c *Catalog) ByBlock(blockName string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		block, ok := unicodedata.BlockByName(blockName)
		if !ok {
			return
		}
		for _, rec := range c.records {
			if rec.Rune > block.Hi {
				return
			}
			if rec.Rune >= block.Lo {
				if !yield(rec) {
					return
				}
			}
		}
	}
}
