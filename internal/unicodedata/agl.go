package unicodedata

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//go:embed glyphlist.txt
var glyphListData []byte

// ErrCorpusUnavailable marks a failure to parse the embedded glyph-name
// corpus. Construction cannot proceed past it.
var ErrCorpusUnavailable = errors.New("glyph name corpus unavailable")

// GlyphNameEntry pairs one Adobe glyph name with the codepoint sequence
// it maps to. Ligature names map to more than one codepoint.
type GlyphNameEntry struct {
	Name  string
	Runes []rune
}

// ParseGlyphList parses the embedded Adobe glyph list. The syntax is one
// entry per line, `name;HEX[ HEX...]`, with '#' comment lines. A malformed
// line is a hard error: without a usable name corpus the engine has no
// meaningful degraded mode.
func ParseGlyphList() ([]GlyphNameEntry, error) {
	var entries []GlyphNameEntry

	scanner := bufio.NewScanner(bytes.NewReader(glyphListData))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, codes, ok := strings.Cut(line, ";")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: line %d: missing name/codepoint separator", ErrCorpusUnavailable, lineNo)
		}

		var runes []rune
		for _, field := range strings.Fields(codes) {
			v, err := strconv.ParseUint(field, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad codepoint %q: %v", ErrCorpusUnavailable, lineNo, field, err)
			}
			r := rune(v)
			if !IsScalarValue(r) {
				return nil, fmt.Errorf("%w: line %d: %q is not a Unicode scalar value", ErrCorpusUnavailable, lineNo, field)
			}
			runes = append(runes, r)
		}
		if len(runes) == 0 {
			return nil, fmt.Errorf("%w: line %d: entry %q has no codepoints", ErrCorpusUnavailable, lineNo, name)
		}

		entries = append(entries, GlyphNameEntry{Name: name, Runes: runes})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read failed: %v", ErrCorpusUnavailable, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: corpus contains no entries", ErrCorpusUnavailable)
	}

	return entries, nil
}

// IsScalarValue reports whether r is a valid Unicode scalar value:
// in range and not a surrogate.
func IsScalarValue(r rune) bool {
	if r < 0 || r > 0x10FFFF {
		return false
	}
	return r < 0xD800 || r > 0xDFFF
}
