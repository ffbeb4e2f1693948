package store

import (
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "glyphana.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
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

func TestEmptyStore(t *testing.T) {
	s := testStore(t)
	col, err := s.LoadCollection()
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if len(col) != 0 {
		t.Errorf("fresh store collection = %q", col)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	collection := []rune{0x20AC, 'A', 0x1F600}
	recent := []rune{'z', 'y'}

	if err := s.SaveCollection(collection); err != nil {
		t.Fatalf("SaveCollection: %v", err)
	}
	if err := s.SaveRecent(recent); err != nil {
		t.Fatalf("SaveRecent: %v", err)
	}

	gotCol, err := s.LoadCollection()
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if !runesEqual(gotCol, collection) {
		t.Errorf("collection = %q, want %q", gotCol, collection)
	}
	gotRecent, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent: %v", err)
	}
	if !runesEqual(gotRecent, recent) {
		t.Errorf("recent = %q, want %q", gotRecent, recent)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	s := testStore(t)
	if err := s.SaveCollection([]rune{'a', 'b', 'c'}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCollection([]rune{'x'}); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadCollection()
	if err != nil {
		t.Fatal(err)
	}
	if !runesEqual(got, []rune{'x'}) {
		t.Errorf("collection = %q, want [x]", got)
	}
}

func TestListsIndependent(t *testing.T) {
	s := testStore(t)
	if err := s.SaveCollection([]rune{'a'}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRecent([]rune{'b'}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRecent(nil); err != nil {
		t.Fatal(err)
	}

	col, err := s.LoadCollection()
	if err != nil {
		t.Fatal(err)
	}
	if !runesEqual(col, []rune{'a'}) {
		t.Errorf("collection = %q, want [a]", col)
	}
	recent, err := s.LoadRecent()
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("recent = %q, want empty", recent)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphana.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveCollection([]rune{0x00DF}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.LoadCollection()
	if err != nil {
		t.Fatal(err)
	}
	if !runesEqual(got, []rune{0x00DF}) {
		t.Errorf("collection = %q, want [ß]", got)
	}
}
