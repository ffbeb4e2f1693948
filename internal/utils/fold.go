// Package utils provides small shared helpers for case folding, file
// handling and TOML parsing used across glyphana packages.
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FoldRune maps a rune to the smallest rune in its simple case-folding
// orbit. This is simple folding, not full Unicode case folding: one rune
// in, one rune out, no special casing for sharp s or final sigma.
func FoldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r
	}
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < m {
			m = f
		}
	}
	return m
}

// FoldString applies FoldRune to every rune in s.
func FoldString(s string) string {
	// ASCII fast path: most glyph names are plain ASCII.
	ascii := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || ('A' <= c && c <= 'Z') {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	return strings.Map(FoldRune, s)
}

// ContainsFold reports whether s contains substr under simple case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(FoldString(s), FoldString(substr))
}
