package search

// FilterScope narrows ranked matches to a scope. member reports whether
// a codepoint belongs to the scoped set; relative order is preserved.
// ScopeAll returns matches unchanged.
func FilterScope(matches []Match, scope Scope, member func(rune) bool) []Match {
	if scope == ScopeAll || member == nil {
		return matches
	}
	out := matches[:0:0]
	for _, m := range matches {
		if member(m.Record.Rune) {
			out = append(out, m)
		}
	}
	return out
}
