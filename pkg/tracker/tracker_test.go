package tracker

import (
	"testing"

	"github.com/virtualritz/glyphana/pkg/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.New(catalog.Options{
		Ranges: []catalog.Range{{Lo: 0x0000, Hi: 0x00FF}},
	})
}

func runesEqual(got, want []rune) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestTouchOrdering(t *testing.T) {
	tr := New(testCatalog(t), 5)
	for _, r := range []rune{'a', 'b', 'c'} {
		tr.Touch(r)
	}
	if got := tr.Recent(); !runesEqual(got, []rune{'c', 'b', 'a'}) {
		t.Errorf("Recent() = %q", got)
	}

	// Re-inspecting moves to front without growing.
	tr.Touch('a')
	if got := tr.Recent(); !runesEqual(got, []rune{'a', 'c', 'b'}) {
		t.Errorf("after re-touch, Recent() = %q", got)
	}
}

func TestTouchBounded(t *testing.T) {
	tr := New(testCatalog(t), 3)
	for r := rune('a'); r <= 'f'; r++ {
		tr.Touch(r)
	}
	got := tr.Recent()
	if len(got) != 3 {
		t.Fatalf("len(Recent()) = %d, want 3", len(got))
	}
	if !runesEqual(got, []rune{'f', 'e', 'd'}) {
		t.Errorf("Recent() = %q", got)
	}
}

func TestTouchUnknownIgnored(t *testing.T) {
	tr := New(testCatalog(t), 5)
	tr.Touch(0x3000) // outside the catalog ranges
	tr.Touch(0xD800)
	if got := tr.Recent(); len(got) != 0 {
		t.Errorf("Recent() = %q, want empty", got)
	}
}

func TestCollectRoundTrip(t *testing.T) {
	tr := New(testCatalog(t), 5)
	if !tr.Collect('x') {
		t.Error("first Collect should report a change")
	}
	if tr.Collect('x') {
		t.Error("second Collect should be a no-op")
	}
	if !tr.Collected('x') {
		t.Error("Collected('x') = false")
	}
	if !tr.Uncollect('x') {
		t.Error("Uncollect should report removal")
	}
	if tr.Uncollect('x') {
		t.Error("second Uncollect should report absence")
	}
	if tr.Collected('x') {
		t.Error("Collected('x') = true after removal")
	}
}

func TestCollectionInsertionOrder(t *testing.T) {
	tr := New(testCatalog(t), 5)
	for _, r := range []rune{'z', 'a', 'm'} {
		tr.Collect(r)
	}
	tr.Collect('a') // idempotent, keeps position
	if got := tr.Collection(); !runesEqual(got, []rune{'z', 'a', 'm'}) {
		t.Errorf("Collection() = %q", got)
	}

	tr.Uncollect('a')
	if got := tr.Collection(); !runesEqual(got, []rune{'z', 'm'}) {
		t.Errorf("after Uncollect, Collection() = %q", got)
	}
}

func TestClearRecentKeepsCollection(t *testing.T) {
	tr := New(testCatalog(t), 5)
	tr.Touch('a')
	tr.Collect('b')
	tr.ClearRecent()
	if got := tr.Recent(); len(got) != 0 {
		t.Errorf("Recent() = %q, want empty", got)
	}
	if !tr.Collected('b') {
		t.Error("collection lost on ClearRecent")
	}
}

func TestRestore(t *testing.T) {
	tr := New(testCatalog(t), 3)
	tr.Restore(
		[]rune{'a', 0x3000, 'b', 'a'},      // unknown and duplicate skipped
		[]rune{'x', 'y', 'x', 'z', 'w'},    // capped at 3, duplicate skipped
	)
	if got := tr.Collection(); !runesEqual(got, []rune{'a', 'b'}) {
		t.Errorf("Collection() = %q", got)
	}
	if got := tr.Recent(); !runesEqual(got, []rune{'x', 'y', 'z'}) {
		t.Errorf("Recent() = %q", got)
	}
}

func TestMember(t *testing.T) {
	tr := New(testCatalog(t), 5)
	tr.Touch('r')
	tr.Collect('c')
	if !tr.Member('r', false) || tr.Member('c', false) {
		t.Error("recent membership wrong")
	}
	if !tr.Member('c', true) || tr.Member('r', true) {
		t.Error("collection membership wrong")
	}
}
