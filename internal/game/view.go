package game

import (
	"sort"

	"companion/internal/card"
	"companion/internal/deck"
)

// PileInfo describes one visible pile for the update broadcast.
type PileInfo struct {
	Name              string `json:"name"`
	VisibleImage      string `json:"visible_image"`
	NumCards          int    `json:"num_cards"`
	HasAttachedCodex  bool   `json:"has_attached_codex"`
	NumAttachedTerror int    `json:"num_attached_terror"`
}

// UpdateInfo is the payload broadcast after every mutation.
type UpdateInfo struct {
	Decks               []PileInfo           `json:"decks"`
	CanAddNeighbourhood []card.Neighbourhood `json:"can_add_neighbourhood"`
}

// visibleBack returns the image identifier shown for a pile's current top,
// falling back to "empty" when the pile has no cards.
func visibleBack(back string, n int) string {
	if n == 0 {
		return "empty"
	}
	return back
}

// orderedBack returns the back image for o's current top card, or "empty".
func orderedBack(o *deck.Ordered) string {
	c, ok := o.PeekTop()
	if !ok {
		return "empty"
	}
	return c.Back
}

// keyedBack returns a representative back image for a Keyed store: every
// card synthesized into one belongs to the same pile and shares a back, so
// any entry will do.
func keyedBack(k *deck.Keyed) string {
	for _, c := range k.Cards {
		return c.Back
	}
	return "empty"
}

// UpdateInfo projects the current state into the broadcast payload, mirroring
// the original update_info()'s construction order: neighbourhoods, then
// Headline, EventDeck, EventDiscard, Codex, then Terror/Rumor/"Add Deck"
// when applicable.
func (e *Engine) UpdateInfo() UpdateInfo {
	s := e.State
	var info UpdateInfo

	names := make([]string, 0, len(s.Neighbourhoods))
	for nb := range s.Neighbourhoods {
		names = append(names, string(nb))
	}
	sort.Strings(names)
	for _, name := range names {
		nb := card.Neighbourhood(name)
		p := s.Neighbourhoods[nb]
		info.Decks = append(info.Decks, PileInfo{
			Name:              name,
			VisibleImage:      visibleBack(p.CardBack, p.Len()),
			NumCards:          p.Len(),
			HasAttachedCodex:  p.AttachedCodex != nil,
			NumAttachedTerror: p.AttachedTerror.Len(),
		})
	}

	info.Decks = append(info.Decks,
		PileInfo{Name: "Headline", VisibleImage: orderedBack(s.Headline), NumCards: s.Headline.Len()},
		PileInfo{Name: "Event Deck", VisibleImage: orderedBack(&s.EventDeck.Ordered), NumCards: s.EventDeck.Len()},
		PileInfo{Name: "Event Discard", VisibleImage: orderedBack(&s.EventDiscard.Ordered), NumCards: s.EventDiscard.Len()},
		PileInfo{Name: "Codex", VisibleImage: keyedBack(s.Codex), NumCards: len(s.Codex.Cards)},
	)

	if s.Terror != nil {
		info.Decks = append(info.Decks, PileInfo{Name: "Terror", VisibleImage: orderedBack(s.Terror), NumCards: s.Terror.Len()})
	}
	if s.Rumor.Len() > 0 {
		info.Decks = append(info.Decks, PileInfo{Name: "Rumor", VisibleImage: orderedBack(s.Rumor), NumCards: s.Rumor.Len()})
	}

	pending := make([]card.Neighbourhood, 0, len(s.Later.Neighbourhoods))
	for nb := range s.Later.Neighbourhoods {
		pending = append(pending, nb)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })
	info.CanAddNeighbourhood = pending
	if len(pending) > 0 {
		info.Decks = append(info.Decks, PileInfo{Name: "Add Deck", NumCards: len(pending)})
	}

	return info
}

// GetArchive returns the archive's cards sorted by codex number.
func (e *Engine) GetArchive() []card.Card {
	return sortedByNumber(e.State.Archive.Cards)
}

// GetCodex returns the codex's cards sorted by codex number.
func (e *Engine) GetCodex() []card.Card {
	return sortedByNumber(e.State.Codex.Cards)
}

func sortedByNumber(m map[int]card.Card) []card.Card {
	out := make([]card.Card, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
