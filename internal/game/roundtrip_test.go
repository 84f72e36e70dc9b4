package game_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"companion/internal/catalog"
)

// Undo then redo returns the full state to structural equality with the
// post-mutation snapshot.
func TestUndoRedoRoundTripRestoresState(t *testing.T) {
	e := buildEngine(t, catalog.FeastForUmordhoth, 0)

	if _, err := e.SpreadDoom("A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eventDeckAfter := *e.State.EventDeck
	discardAfter := *e.State.EventDiscard

	if err := e.History.Undo("A"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if err := e.History.Redo("A"); err != nil {
		t.Fatalf("redo: %v", err)
	}

	if diff := cmp.Diff(eventDeckAfter, *e.State.EventDeck); diff != "" {
		t.Fatalf("EventDeck mismatch after undo/redo round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(discardAfter, *e.State.EventDiscard); diff != "" {
		t.Fatalf("EventDiscard mismatch after undo/redo round trip (-want +got):\n%s", diff)
	}
}
