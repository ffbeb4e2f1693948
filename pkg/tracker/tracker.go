// Package tracker keeps the user-facing working sets: a bounded
// most-recently-inspected list and a persistent glyph collection. Both
// hold codepoints only; attributes are always re-resolved through the
// catalog so the two never disagree.
package tracker

import (
	"sync"

	"github.com/virtualritz/glyphana/pkg/catalog"
)

// DefaultRecentCap bounds the recent list when no capacity is given.
const DefaultRecentCap = 20

// Tracker is safe for concurrent use. All methods take the lock; reads
// return copies, never internal slices.
type Tracker struct {
	mu         sync.Mutex
	cat        *catalog.Catalog
	recent     []rune
	recentCap  int
	collection []rune
	collected  map[rune]struct{}
}

// New builds a tracker over cat. recentCap <= 0 selects the default.
func New(cat *catalog.Catalog, recentCap int) *Tracker {
	if recentCap <= 0 {
		recentCap = DefaultRecentCap
	}
	return &Tracker{
		cat:       cat,
		recentCap: recentCap,
		collected: make(map[rune]struct{}),
	}
}

// Touch records r as the most recently inspected glyph. Re-inspecting
// moves it to the front without growing the list; codepoints outside
// the catalog are ignored.
func (t *Tracker) Touch(r rune) {
	if _, ok := t.cat.Lookup(r); !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.recent {
		if existing == r {
			copy(t.recent[1:i+1], t.recent[:i])
			t.recent[0] = r
			return
		}
	}
	t.recent = append(t.recent, 0)
	copy(t.recent[1:], t.recent)
	t.recent[0] = r
	if len(t.recent) > t.recentCap {
		t.recent = t.recent[:t.recentCap]
	}
}

// Recent returns the recent list, most recent first.
func (t *Tracker) Recent() []rune {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rune, len(t.recent))
	copy(out, t.recent)
	return out
}

// ClearRecent empties the recent list. The collection is untouched.
func (t *Tracker) ClearRecent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recent = t.recent[:0]
}

// Collect adds r to the collection. Adding an already collected glyph
// is a no-op that keeps its original position. Reports whether the
// collection changed.
func (t *Tracker) Collect(r rune) bool {
	if _, ok := t.cat.Lookup(r); !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.collected[r]; ok {
		return false
	}
	t.collected[r] = struct{}{}
	t.collection = append(t.collection, r)
	return true
}

// Uncollect removes r from the collection, preserving the order of the
// remaining glyphs. Reports whether r was present.
func (t *Tracker) Uncollect(r rune) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.collected[r]; !ok {
		return false
	}
	delete(t.collected, r)
	for i, existing := range t.collection {
		if existing == r {
			t.collection = append(t.collection[:i], t.collection[i+1:]...)
			break
		}
	}
	return true
}

// Collected reports whether r is in the collection.
func (t *Tracker) Collected(r rune) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.collected[r]
	return ok
}

// Collection returns the collection in insertion order.
func (t *Tracker) Collection() []rune {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rune, len(t.collection))
	copy(out, t.collection)
	return out
}

// Restore replaces the collection and recent list wholesale, used when
// loading persisted state. Codepoints missing from the catalog are
// skipped; duplicates keep their first position.
func (t *Tracker) Restore(collection, recent []rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.collection = t.collection[:0]
	t.collected = make(map[rune]struct{})
	for _, r := range collection {
		if _, ok := t.cat.Lookup(r); !ok {
			continue
		}
		if _, ok := t.collected[r]; ok {
			continue
		}
		t.collected[r] = struct{}{}
		t.collection = append(t.collection, r)
	}

	t.recent = t.recent[:0]
	seen := make(map[rune]struct{})
	for _, r := range recent {
		if len(t.recent) >= t.recentCap {
			break
		}
		if _, ok := t.cat.Lookup(r); !ok {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		t.recent = append(t.recent, r)
	}
}

// Member reports whether r belongs to the given scope. The all scope
// admits every catalog codepoint.
func (t *Tracker) Member(r rune, inCollection bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if inCollection {
		_, ok := t.collected[r]
		return ok
	}
	for _, existing := range t.recent {
		if existing == r {
			return true
		}
	}
	return false
}
