// Package search is the core query engine: it splits free-form input
// into terms, evaluates each term against the content, name, database
// and skeleton indices with a fuzzy fallback, and merges the per-term
// hits into one deterministically ranked result list.
package search

import "strings"

// Source identifies which index produced a match. Declaration order is
// ranking priority: content beats name beats database beats skeleton
// beats fuzzy when scores tie.
type Source uint8

const (
	SourceContent Source = iota
	SourceName
	SourceDatabase
	SourceSkeleton
	SourceFuzzy
)

func (s Source) String() string {
	switch s {
	case SourceContent:
		return "content"
	case SourceName:
		return "name"
	case SourceDatabase:
		return "database"
	case SourceSkeleton:
		return "skeleton"
	case SourceFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// SourceSet is a bitmask of match sources.
type SourceSet uint8

// Add returns the set with s included.
func (ss SourceSet) Add(s Source) SourceSet {
	return ss | 1<<s
}

// Has reports whether s is in the set.
func (ss SourceSet) Has(s Source) bool {
	return ss&(1<<s) != 0
}

// Best returns the highest-priority source in the set.
func (ss SourceSet) Best() Source {
	for s := SourceContent; s <= SourceFuzzy; s++ {
		if ss.Has(s) {
			return s
		}
	}
	return SourceFuzzy
}

func (ss SourceSet) String() string {
	var parts []string
	for s := SourceContent; s <= SourceFuzzy; s++ {
		if ss.Has(s) {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, "+")
}

// Scope selects which character set a query runs against.
type Scope uint8

const (
	ScopeAll Scope = iota
	ScopeRecent
	ScopeCollection
)

func (s Scope) String() string {
	switch s {
	case ScopeRecent:
		return "recent"
	case ScopeCollection:
		return "collection"
	}
	return "all"
}

// Query is one ephemeral search invocation. It holds no catalog data,
// only the raw input and its derived terms.
type Query struct {
	Raw           string
	Terms         []string
	CaseSensitive bool
}

// NewQuery splits raw on whitespace runs into trimmed non-empty terms.
func NewQuery(raw string, caseSensitive bool) Query {
	return Query{
		Raw:           raw,
		Terms:         strings.Fields(raw),
		CaseSensitive: caseSensitive,
	}
}

// Empty reports whether the query has no terms after trimming.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}
