package catalog

import (
	"strings"
	"unicode"
)

// DisplayName returns the record's name title-cased for presentation,
// falling back to the U+XXXX form for unnamed codepoints.
func (r Record) DisplayName() string {
	if r.Name == "" {
		return r.Hex()
	}
	return TitleCase(r.Name)
}

// TitleCase lowercases s and capitalizes the first letter of every word.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize uppercases the first rune only.
func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
