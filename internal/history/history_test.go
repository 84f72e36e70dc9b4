package history

import "testing"

// fakeStore is a Snapshotter over plain ints, letting tests assert on the
// restored value directly instead of a game pile.
type fakeStore struct {
	values map[Label]int
}

func newFakeStore(labels ...Label) *fakeStore {
	s := &fakeStore{values: make(map[Label]int)}
	for _, l := range labels {
		s.values[l] = 0
	}
	return s
}

func (s *fakeStore) Snapshot(label Label) any {
	v := s.values[label]
	return &v
}

func (s *fakeStore) Restore(label Label, snapshot any) {
	s.values[label] = *snapshot.(*int)
}

func (s *fakeStore) set(label Label, v int) {
	s.values[label] = v
}

func TestUndoRedoRoundTrip(t *testing.T) {
	store := newFakeStore("A")
	e := NewEngine(store, []Label{"A"})
	e.AddPlayer("p1")

	store.set("A", 1)
	e.Record("p1", []Label{"A"})

	if !e.CanUndo("p1") {
		t.Fatal("expected undo to be available")
	}
	if err := e.Undo("p1"); err != nil {
		t.Fatal(err)
	}
	if store.values["A"] != 0 {
		t.Fatalf("expected undo to restore 0, got %d", store.values["A"])
	}
	if !e.CanRedo("p1") {
		t.Fatal("expected redo to be available")
	}
	if err := e.Redo("p1"); err != nil {
		t.Fatal(err)
	}
	if store.values["A"] != 1 {
		t.Fatalf("expected redo to restore 1, got %d", store.values["A"])
	}
}

func TestUndoFailsWithNothingToUndo(t *testing.T) {
	store := newFakeStore("A")
	e := NewEngine(store, []Label{"A"})
	e.AddPlayer("p1")
	if e.CanUndo("p1") {
		t.Fatal("expected CanUndo to be false with no history")
	}
	if err := e.Undo("p1"); err == nil {
		t.Fatal("expected an error undoing with nothing recorded")
	}
}

func TestNonInterferenceAllowsDisjointLabels(t *testing.T) {
	store := newFakeStore("A", "B")
	e := NewEngine(store, []Label{"A", "B"})
	e.AddPlayer("x")
	e.AddPlayer("y")

	store.set("A", 1)
	e.Record("x", []Label{"A"})
	store.set("B", 1)
	e.Record("y", []Label{"B"})

	if !e.CanUndo("x") {
		t.Fatal("expected x to be able to undo: labels are disjoint")
	}
	if !e.CanUndo("y") {
		t.Fatal("expected y to be able to undo: labels are disjoint")
	}
}

func TestNonInterferenceBlocksOverlappingLabels(t *testing.T) {
	store := newFakeStore("A", "B")
	e := NewEngine(store, []Label{"A", "B"})
	e.AddPlayer("x")
	e.AddPlayer("y")

	store.set("A", 1)
	e.Record("x", []Label{"A", "B"})
	store.set("A", 2)
	e.Record("y", []Label{"A"})

	if e.CanUndo("x") {
		t.Fatal("expected x's undo to be blocked: y touched a shared label")
	}
	if !e.CanUndo("y") {
		t.Fatal("expected y to still be able to undo")
	}

	if err := e.Undo("y"); err != nil {
		t.Fatal(err)
	}
	if !e.CanUndo("x") {
		t.Fatal("expected x's undo to unblock once y undid the conflicting action")
	}
}

func TestRecordTruncatesOtherPlayersForwardLog(t *testing.T) {
	store := newFakeStore("A")
	e := NewEngine(store, []Label{"A"})
	e.AddPlayer("x")
	e.AddPlayer("y")

	store.set("A", 1)
	e.Record("x", []Label{"A"})
	if err := e.Undo("x"); err != nil {
		t.Fatal(err)
	}
	if !e.CanRedo("x") {
		t.Fatal("expected x to have a forward entry to redo")
	}

	store.set("A", 2)
	e.Record("y", []Label{"A"})

	if e.CanRedo("x") {
		t.Fatal("expected x's forward log to be truncated by y's mutation")
	}
}
