// Package deck implements the pile family: Ordered, NeighbourhoodPile,
// EventPile, Archive/Codex, and PendingAction. Shuffling follows the
// rejection-sampling shape of committee/rng.go's BigIntn, re-pointed from a
// deterministic hash stream onto crypto/rand so that draws are unpredictable
// rather than reproducible from a seed.
package deck

import (
	"crypto/rand"
	"math/big"

	"companion/internal/card"
	"companion/internal/companionerr"
)

// randIntn returns a uniform random integer in [0, n) using a CSPRNG. It
// panics on entropy-source failure, which indicates a broken host rather
// than a recoverable game-state error.
func randIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("deck: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// Ordered is a bottom-to-top sequence of cards; the last element is the top.
type Ordered struct {
	Cards []card.Card
}

// NewOrdered builds an Ordered pile from an initial bottom-to-top sequence.
func NewOrdered(cards ...card.Card) *Ordered {
	return &Ordered{Cards: append([]card.Card(nil), cards...)}
}

func (o *Ordered) Len() int { return len(o.Cards) }

// Draw removes and returns the top or bottom card.
func (o *Ordered) Draw(fromTop bool) (card.Card, error) {
	if len(o.Cards) == 0 {
		return card.Card{}, companionerr.New(companionerr.KindEmptyDeck, "pile is empty")
	}
	if fromTop {
		c := o.Cards[len(o.Cards)-1]
		o.Cards = o.Cards[:len(o.Cards)-1]
		return c, nil
	}
	c := o.Cards[0]
	o.Cards = o.Cards[1:]
	return c, nil
}

// Top places c on top of the pile.
func (o *Ordered) Top(c card.Card) {
	o.Cards = append(o.Cards, c)
}

// Bottom places c at the bottom of the pile.
func (o *Ordered) Bottom(c card.Card) {
	o.Cards = append([]card.Card{c}, o.Cards...)
}

// PeekTop returns the top card without removing it. ok is false if empty.
func (o *Ordered) PeekTop() (card.Card, bool) {
	if len(o.Cards) == 0 {
		return card.Card{}, false
	}
	return o.Cards[len(o.Cards)-1], true
}

// PeekBottom returns the bottom card without removing it. ok is false if empty.
func (o *Ordered) PeekBottom() (card.Card, bool) {
	if len(o.Cards) == 0 {
		return card.Card{}, false
	}
	return o.Cards[0], true
}

// Shuffle performs a uniform Fisher-Yates permutation using a CSPRNG.
func (o *Ordered) Shuffle() {
	for i := len(o.Cards) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		o.Cards[i], o.Cards[j] = o.Cards[j], o.Cards[i]
	}
}

// ShuffleIntoTopThree removes the current top two cards, combines them with
// c, permutes the group uniformly at random, and pushes all of it back on
// top. If fewer than two cards remain, it combines with whatever is present.
func (o *Ordered) ShuffleIntoTopThree(c card.Card) {
	n := len(o.Cards)
	take := 2
	if n < take {
		take = n
	}
	group := append([]card.Card{c}, o.Cards[n-take:]...)
	o.Cards = o.Cards[:n-take]

	for i := len(group) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		group[i], group[j] = group[j], group[i]
	}
	o.Cards = append(o.Cards, group...)
}

// Clone returns an independent deep copy.
func (o *Ordered) Clone() *Ordered {
	return &Ordered{Cards: append([]card.Card(nil), o.Cards...)}
}

// NeighbourhoodPile is an Ordered encounter pile plus its attached terror
// stack and at most one attached codex card.
type NeighbourhoodPile struct {
	Ordered
	AttachedTerror Ordered
	AttachedCodex  *card.Card
	CardBack       string
}

// NewNeighbourhoodPile builds a pile with the given cards and card back.
func NewNeighbourhoodPile(cardBack string, cards ...card.Card) *NeighbourhoodPile {
	return &NeighbourhoodPile{
		Ordered:  Ordered{Cards: append([]card.Card(nil), cards...)},
		CardBack: cardBack,
	}
}

// AddTerror pushes c onto the top of the attached terror stack.
func (n *NeighbourhoodPile) AddTerror(c card.Card) {
	n.AttachedTerror.Top(c)
}

// AttachCodex stores c as the attached codex card. It fails InvalidOp if one
// is already attached: a codex card occupies exactly one place at a time.
func (n *NeighbourhoodPile) AttachCodex(c card.Card) error {
	if n.AttachedCodex != nil {
		return companionerr.New(companionerr.KindInvalidOp, "neighbourhood already has an attached codex card")
	}
	cc := c
	n.AttachedCodex = &cc
	return nil
}

// PopCodex removes and returns the attached codex card, if any.
func (n *NeighbourhoodPile) PopCodex() (card.Card, bool) {
	if n.AttachedCodex == nil {
		return card.Card{}, false
	}
	c := *n.AttachedCodex
	n.AttachedCodex = nil
	return c, true
}

// HasCodex reports whether the attached codex card has the given number.
func (n *NeighbourhoodPile) HasCodex(number int) bool {
	return n.AttachedCodex != nil && n.AttachedCodex.Number == number
}

// ModifyCodexCounters adds delta to the attached codex card's counters,
// clamped at zero. It fails NotFound if nothing is attached.
func (n *NeighbourhoodPile) ModifyCodexCounters(delta int) error {
	if n.AttachedCodex == nil {
		return companionerr.New(companionerr.KindNotFound, "no attached codex card")
	}
	n.AttachedCodex.Counters = clampZero(n.AttachedCodex.Counters + delta)
	return nil
}

// FlipCodex marks the attached codex card flipped. Flipping is one-way: the
// wire protocol has no "unflip" action.
func (n *NeighbourhoodPile) FlipCodex() error {
	if n.AttachedCodex == nil {
		return companionerr.New(companionerr.KindNotFound, "no attached codex card")
	}
	n.AttachedCodex.IsFlipped = true
	return nil
}

// Clone returns an independent deep copy.
func (n *NeighbourhoodPile) Clone() *NeighbourhoodPile {
	clone := &NeighbourhoodPile{
		Ordered:        Ordered{Cards: append([]card.Card(nil), n.Cards...)},
		AttachedTerror: Ordered{Cards: append([]card.Card(nil), n.AttachedTerror.Cards...)},
		CardBack:       n.CardBack,
	}
	if n.AttachedCodex != nil {
		cc := *n.AttachedCodex
		clone.AttachedCodex = &cc
	}
	return clone
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// EventPile is the ordered sequence of Neighbourhood cards behind the
// EventDeck/EventDiscard labels.
type EventPile struct {
	Ordered
}

// NewEventPile builds an EventPile from an initial bottom-to-top sequence.
func NewEventPile(cards ...card.Card) *EventPile {
	return &EventPile{Ordered: Ordered{Cards: append([]card.Card(nil), cards...)}}
}

// RemoveNeighbourhood partitions self into cards whose Neighbourhood is in
// the given set (removed, grouped per neighbourhood, order preserved) and
// cards that stay. Self is mutated to hold only the kept cards.
func (e *EventPile) RemoveNeighbourhood(neighbourhoods []card.Neighbourhood) map[card.Neighbourhood][]card.Card {
	want := make(map[card.Neighbourhood]bool, len(neighbourhoods))
	for _, nb := range neighbourhoods {
		want[nb] = true
	}
	removed := make(map[card.Neighbourhood][]card.Card, len(neighbourhoods))
	kept := make([]card.Card, 0, len(e.Cards))
	for _, c := range e.Cards {
		if want[c.Neighbourhood] {
			removed[c.Neighbourhood] = append(removed[c.Neighbourhood], c)
		} else {
			kept = append(kept, c)
		}
	}
	e.Cards = kept
	return removed
}

// ShuffleDiscard shuffles discard and places it underneath self (discard
// becomes the new bottom of the combined pile). discard is left empty.
func (e *EventPile) ShuffleDiscard(discard *EventPile) {
	discard.Shuffle()
	e.Cards = append(append([]card.Card(nil), discard.Cards...), e.Cards...)
	discard.Cards = nil
}

// Clone returns an independent deep copy.
func (e *EventPile) Clone() *EventPile {
	return &EventPile{Ordered: Ordered{Cards: append([]card.Card(nil), e.Cards...)}}
}

// Keyed is a number-keyed card store backing the Archive and Codex labels.
type Keyed struct {
	Cards map[int]card.Card
}

// NewKeyed builds an empty keyed store.
func NewKeyed() *Keyed {
	return &Keyed{Cards: make(map[int]card.Card)}
}

// GetCard removes and returns the card at number n.
func (k *Keyed) GetCard(n int) (card.Card, error) {
	c, ok := k.Cards[n]
	if !ok {
		return card.Card{}, companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
	}
	delete(k.Cards, n)
	return c, nil
}

// AddCard inserts c keyed by its Number field.
func (k *Keyed) AddCard(c card.Card) {
	k.Cards[c.Number] = c
}

// Has reports whether number n is present.
func (k *Keyed) Has(n int) bool {
	_, ok := k.Cards[n]
	return ok
}

// ModifyCounters adds delta to the card at n, clamped at zero.
func (k *Keyed) ModifyCounters(n, delta int) error {
	c, ok := k.Cards[n]
	if !ok {
		return companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
	}
	c.Counters = clampZero(c.Counters + delta)
	k.Cards[n] = c
	return nil
}

// Flip marks the card at n flipped. Flipping is one-way: the wire protocol
// has no "unflip" action.
func (k *Keyed) Flip(n int) error {
	c, ok := k.Cards[n]
	if !ok {
		return companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
	}
	c.IsFlipped = true
	k.Cards[n] = c
	return nil
}

// Clone returns an independent deep copy.
func (k *Keyed) Clone() *Keyed {
	clone := make(map[int]card.Card, len(k.Cards))
	for n, c := range k.Cards {
		clone[n] = c
	}
	return &Keyed{Cards: clone}
}

// PendingAction is a ticket-keyed store of cards awaiting pass/fail
// resolution (the ActionRequired label).
type PendingAction struct {
	Tickets map[string]card.Card
}

// NewPendingAction builds an empty store.
func NewPendingAction() *PendingAction {
	return &PendingAction{Tickets: make(map[string]card.Card)}
}

// Put inserts c under the caller-supplied ticket.
func (p *PendingAction) Put(ticket string, c card.Card) {
	p.Tickets[ticket] = c
}

// Pop removes and returns the card under ticket.
func (p *PendingAction) Pop(ticket string) (card.Card, error) {
	c, ok := p.Tickets[ticket]
	if !ok {
		return card.Card{}, companionerr.Newf(companionerr.KindNotFound, "ticket %q not found", ticket)
	}
	delete(p.Tickets, ticket)
	return c, nil
}

// Clone returns an independent deep copy.
func (p *PendingAction) Clone() *PendingAction {
	clone := make(map[string]card.Card, len(p.Tickets))
	for t, c := range p.Tickets {
		clone[t] = c
	}
	return &PendingAction{Tickets: clone}
}
