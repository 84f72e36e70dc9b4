package deck

import (
	"sort"
	"testing"

	"companion/internal/card"
)

func TestOrderedDrawEmptyFails(t *testing.T) {
	o := NewOrdered()
	if _, err := o.Draw(true); err == nil {
		t.Fatal("expected EmptyDeck error from an empty pile")
	}
}

func TestOrderedTopBottomOrder(t *testing.T) {
	o := NewOrdered()
	a := card.Card{Face: "a"}
	b := card.Card{Face: "b"}
	o.Top(a)
	o.Bottom(b)
	if o.Cards[0].Face != "b" || o.Cards[1].Face != "a" {
		t.Fatalf("unexpected order: %+v", o.Cards)
	}
}

func TestShuffleIntoTopThreePreservesMultiset(t *testing.T) {
	o := NewOrdered(
		card.Card{Number: 1},
		card.Card{Number: 2},
		card.Card{Number: 3},
	)
	o.ShuffleIntoTopThree(card.Card{Number: 4})
	if o.Len() != 4 {
		t.Fatalf("expected 4 cards, got %d", o.Len())
	}
	got := numbersSorted(o.Cards)
	want := []int{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("multiset changed: got %v want %v", got, want)
		}
	}
}

func TestShuffleIntoTopThreeWithFewerThanTwo(t *testing.T) {
	o := NewOrdered(card.Card{Number: 1})
	o.ShuffleIntoTopThree(card.Card{Number: 2})
	if o.Len() != 2 {
		t.Fatalf("expected 2 cards, got %d", o.Len())
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	cards := make([]card.Card, 20)
	for i := range cards {
		cards[i] = card.Card{Number: i}
	}
	o := NewOrdered(cards...)
	o.Shuffle()
	got := numbersSorted(o.Cards)
	for i := range got {
		if got[i] != i {
			t.Fatalf("shuffle changed the multiset: %v", got)
		}
	}
}

func numbersSorted(cards []card.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Number
	}
	sort.Ints(out)
	return out
}

func TestNeighbourhoodPileAttachCodexOnlyOnce(t *testing.T) {
	p := NewNeighbourhoodPile("back")
	if err := p.AttachCodex(card.Card{Number: 1}); err != nil {
		t.Fatalf("first attach should succeed: %v", err)
	}
	if err := p.AttachCodex(card.Card{Number: 2}); err == nil {
		t.Fatal("expected InvalidOp when a codex card is already attached")
	}
}

func TestNeighbourhoodPileModifyCodexCountersClampsAtZero(t *testing.T) {
	p := NewNeighbourhoodPile("back")
	_ = p.AttachCodex(card.Card{Number: 1, Counters: 1})
	if err := p.ModifyCodexCounters(-5); err != nil {
		t.Fatal(err)
	}
	if p.AttachedCodex.Counters != 0 {
		t.Fatalf("expected counters clamped to 0, got %d", p.AttachedCodex.Counters)
	}
}

func TestEventPileRemoveNeighbourhoodPartitions(t *testing.T) {
	e := NewEventPile(
		card.Card{Neighbourhood: "A"},
		card.Card{Neighbourhood: "B"},
		card.Card{Neighbourhood: "A"},
	)
	removed := e.RemoveNeighbourhood([]card.Neighbourhood{"A"})
	if e.Len() != 1 || e.Cards[0].Neighbourhood != "B" {
		t.Fatalf("expected only B to remain, got %+v", e.Cards)
	}
	if len(removed["A"]) != 2 {
		t.Fatalf("expected 2 removed A cards, got %d", len(removed["A"]))
	}
}

func TestEventPileShuffleDiscardGoesUnderneath(t *testing.T) {
	e := NewEventPile(card.Card{Number: 1})
	discard := NewEventPile(card.Card{Number: 2}, card.Card{Number: 3})
	e.ShuffleDiscard(discard)
	if e.Len() != 3 {
		t.Fatalf("expected 3 cards after merge, got %d", e.Len())
	}
	if discard.Len() != 0 {
		t.Fatal("expected discard to be emptied")
	}
	if e.Cards[2].Number != 1 {
		t.Fatalf("expected original top card to remain on top, got %+v", e.Cards[2])
	}
}

func TestKeyedGetCardRemovesAndFailsOnMissing(t *testing.T) {
	k := NewKeyed()
	k.AddCard(card.Card{Number: 5})
	c, err := k.GetCard(5)
	if err != nil || c.Number != 5 {
		t.Fatalf("expected to retrieve card 5, got %+v err=%v", c, err)
	}
	if _, err := k.GetCard(5); err == nil {
		t.Fatal("expected NotFound after the card was removed")
	}
}

func TestPendingActionPutPop(t *testing.T) {
	p := NewPendingAction()
	p.Put("ticket-1", card.Card{Face: "x"})
	c, err := p.Pop("ticket-1")
	if err != nil || c.Face != "x" {
		t.Fatalf("unexpected pop result: %+v err=%v", c, err)
	}
	if _, err := p.Pop("ticket-1"); err == nil {
		t.Fatal("expected NotFound for an already-popped ticket")
	}
}
