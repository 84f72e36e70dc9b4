package game

import (
	"companion/internal/card"
	"companion/internal/catalog"
	"companion/internal/companionerr"
)

// DrawFromNeighbourhood draws the top card of nb. A CodexNeighbourhood card
// goes to the Archive; an event card is parked in ActionRequired under a
// fresh ticket; anything else returns to the bottom of nb.
func (e *Engine) DrawFromNeighbourhood(player string, nb card.Neighbourhood) (card.Card, string, error) {
	p, err := mustNeighbourhood(e.State, nb)
	if err != nil {
		return card.Card{}, "", err
	}
	c, err := p.Draw(true)
	if err != nil {
		return card.Card{}, "", err
	}

	switch {
	case c.Kind == card.KindCodexNeighbourhood:
		c.IsFlipped = false
		e.State.Archive.AddCard(c)
		e.touch(player, NeighbourhoodLabel(nb), LabelArchive)
		return c, "", nil
	case c.IsEvent:
		ticket := newTicket()
		e.State.ActionRequired.Put(ticket, c)
		e.touch(player, NeighbourhoodLabel(nb), LabelActionRequired)
		return c, ticket, nil
	default:
		p.Bottom(c)
		e.touch(player, NeighbourhoodLabel(nb))
		return c, "", nil
	}
}

// ResolvePending resolves a ticket previously issued by DrawFromNeighbourhood
// for an event card. passed sends the card to the bottom of EventDiscard;
// failing shuffles it back into the top three of its own neighbourhood.
func (e *Engine) ResolvePending(player string, ticket string, passed bool) error {
	c, err := e.State.ActionRequired.Pop(ticket)
	if err != nil {
		return err
	}
	if passed {
		e.State.EventDiscard.Bottom(c)
		e.touch(player, LabelActionRequired, LabelEventDiscard)
		return nil
	}
	p, err := mustNeighbourhood(e.State, c.Neighbourhood)
	if err != nil {
		return err
	}
	p.ShuffleIntoTopThree(c)
	e.touch(player, LabelActionRequired, NeighbourhoodLabel(c.Neighbourhood))
	return nil
}

// DrawTerrorFromNeighbourhood draws the top terror card attached to nb and
// pushes it onto the bottom of the Terror pile.
func (e *Engine) DrawTerrorFromNeighbourhood(player string, nb card.Neighbourhood) (card.Card, error) {
	p, err := mustNeighbourhood(e.State, nb)
	if err != nil {
		return card.Card{}, err
	}
	c, err := p.AttachedTerror.Draw(true)
	if err != nil {
		return card.Card{}, err
	}
	if e.State.Terror == nil {
		return card.Card{}, companionerr.New(companionerr.KindInvalidOp, "scenario has no terror pile")
	}
	e.State.Terror.Bottom(c)
	e.touch(player, NeighbourhoodLabel(nb), LabelTerror)
	return c, nil
}

// SpreadDoom draws the bottom of EventDeck and pushes it to the bottom of
// EventDiscard. On EmptyDeck it reshuffles EventDiscard into EventDeck first
// so the next call succeeds, then still reports EmptyDeck to the caller.
func (e *Engine) SpreadDoom(player string) (card.Card, error) {
	c, err := e.State.EventDeck.Draw(false)
	if err != nil {
		e.State.EventDeck.ShuffleDiscard(e.State.EventDiscard)
		e.touch(player, LabelEventDeck, LabelEventDiscard)
		return card.Card{}, err
	}
	e.State.EventDiscard.Bottom(c)
	e.touch(player, LabelEventDeck, LabelEventDiscard)
	return c, nil
}

// SpreadClue draws the top of EventDeck and shuffles it into the top three
// of its own neighbourhood's pile. Empty-deck behaviour matches SpreadDoom.
func (e *Engine) SpreadClue(player string) (card.Card, error) {
	c, err := e.State.EventDeck.Draw(true)
	if err != nil {
		e.State.EventDeck.ShuffleDiscard(e.State.EventDiscard)
		e.touch(player, LabelEventDeck, LabelEventDiscard)
		return card.Card{}, err
	}
	p, perr := mustNeighbourhood(e.State, c.Neighbourhood)
	if perr != nil {
		return card.Card{}, perr
	}
	p.ShuffleIntoTopThree(c)
	e.touch(player, LabelEventDeck, NeighbourhoodLabel(c.Neighbourhood))
	return c, nil
}

// SpreadTerrorResult reports where a drawn terror card landed: either the
// card at EventDiscard's bottom (read, not removed), or a bare neighbourhood
// when the discard was empty and the default applies.
type SpreadTerrorResult struct {
	Card          *card.Card
	Neighbourhood card.Neighbourhood
}

// SpreadTerror draws the top of Terror and attaches it to a destination
// neighbourhood: EventDiscard's bottom card's neighbourhood if non-empty,
// else the scenario's default terror neighbourhood.
func (e *Engine) SpreadTerror(player string, scenario catalog.Scenario) (SpreadTerrorResult, error) {
	if e.State.Terror == nil {
		return SpreadTerrorResult{}, companionerr.New(companionerr.KindInvalidOp, "scenario has no terror pile")
	}
	var result SpreadTerrorResult
	var dest card.Neighbourhood
	if bottom, ok := e.State.EventDiscard.PeekBottom(); ok {
		c := bottom
		result.Card = &c
		dest = bottom.Neighbourhood
	} else {
		dest = catalog.DefaultTerrorNeighbourhood[scenario]
		result.Neighbourhood = dest
	}
	p, err := mustNeighbourhood(e.State, dest)
	if err != nil {
		return SpreadTerrorResult{}, err
	}
	t, err := e.State.Terror.Draw(true)
	if err != nil {
		return SpreadTerrorResult{}, err
	}
	p.AddTerror(t)
	e.touch(player, LabelTerror, NeighbourhoodLabel(dest))
	return result, nil
}

// PlaceTerror behaves like SpreadTerror but with an explicit destination.
func (e *Engine) PlaceTerror(player string, nb card.Neighbourhood) error {
	if e.State.Terror == nil {
		return companionerr.New(companionerr.KindInvalidOp, "scenario has no terror pile")
	}
	p, err := mustNeighbourhood(e.State, nb)
	if err != nil {
		return err
	}
	t, err := e.State.Terror.Draw(true)
	if err != nil {
		return err
	}
	p.AddTerror(t)
	e.touch(player, LabelTerror, NeighbourhoodLabel(nb))
	return nil
}

// GateBurst draws the top of EventDeck (the drawn card is consumed, matching
// the draw-then-reshuffle reading of the source behaviour), then reshuffles
// EventDiscard into EventDeck and clears the discard. If EventDeck starts
// empty the reshuffle still happens and nothing is drawn.
func (e *Engine) GateBurst(player string) (*card.Card, error) {
	var drawn *card.Card
	if c, err := e.State.EventDeck.Draw(true); err == nil {
		drawn = &c
	}
	e.State.EventDeck.ShuffleDiscard(e.State.EventDiscard)
	e.touch(player, LabelEventDeck, LabelEventDiscard)
	return drawn, nil
}

// DrawHeadline draws the top headline card; if it is a rumor, the Rumor pile
// is cleared and replaced by this card.
func (e *Engine) DrawHeadline(player string) (card.Card, error) {
	c, err := e.State.Headline.Draw(true)
	if err != nil {
		return card.Card{}, err
	}
	if c.IsRumor {
		e.State.Rumor.Cards = nil
		e.State.Rumor.Top(c)
		e.touch(player, LabelHeadline, LabelRumor)
		return c, nil
	}
	e.touch(player, LabelHeadline)
	return c, nil
}

// ClearRumor empties the Rumor pile. Fails InvalidOp if it is already empty.
func (e *Engine) ClearRumor(player string) error {
	if e.State.Rumor.Len() == 0 {
		return companionerr.New(companionerr.KindInvalidOp, "no rumor in play")
	}
	e.State.Rumor.Cards = nil
	e.touch(player, LabelRumor)
	return nil
}

// ModifyCounterOnRumor adjusts the single rumor card's counters, clamped at
// zero. Fails InvalidOp if there is no rumor.
func (e *Engine) ModifyCounterOnRumor(player string, delta int) error {
	if e.State.Rumor.Len() == 0 {
		return companionerr.New(companionerr.KindInvalidOp, "no rumor in play")
	}
	c, _ := e.State.Rumor.PeekTop()
	c.Counters = clampZero(c.Counters + delta)
	e.State.Rumor.Cards[len(e.State.Rumor.Cards)-1] = c
	e.touch(player, LabelRumor)
	return nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// AddFromArchive removes codex number n from the Archive and routes it: an
// attachable CodexNeighbourhood attaches to its neighbourhood; a shuffle
// encounter shuffles into that neighbourhood's top three; a top encounter
// goes on top of it; anything else lands in Codex.
func (e *Engine) AddFromArchive(player string, n int) error {
	c, err := e.State.Archive.GetCard(n)
	if err != nil {
		return err
	}

	if c.Kind == card.KindCodexNeighbourhood {
		p, perr := mustNeighbourhood(e.State, c.Neighbourhood)
		if perr != nil {
			return perr
		}
		switch {
		case c.CanAttach:
			if aerr := p.AttachCodex(c); aerr != nil {
				return aerr
			}
		case c.IsEncounter && catalog.CodexShuffleEncounters[n]:
			p.ShuffleIntoTopThree(c)
		case catalog.CodexTopEncounters[n]:
			p.Top(c)
		default:
			e.State.Codex.AddCard(c)
			e.touch(player, LabelArchive, LabelCodex)
			return nil
		}
		e.touch(player, LabelArchive, NeighbourhoodLabel(c.Neighbourhood))
		return nil
	}

	e.State.Codex.AddCard(c)
	e.touch(player, LabelArchive, LabelCodex)
	return nil
}

// ReturnToArchive locates codex number n in Codex or attached to some
// neighbourhood, resets it, and returns it to the Archive.
func (e *Engine) ReturnToArchive(player string, n int) error {
	if e.State.Codex.Has(n) {
		c, _ := e.State.Codex.GetCard(n)
		c.Counters = 0
		c.IsFlipped = false
		e.State.Archive.AddCard(c)
		e.touch(player, LabelCodex, LabelArchive)
		return nil
	}
	for nb, p := range e.State.Neighbourhoods {
		if p.HasCodex(n) {
			c, _ := p.PopCodex()
			c.Counters = 0
			c.IsFlipped = false
			e.State.Archive.AddCard(c)
			e.touch(player, NeighbourhoodLabel(nb), LabelArchive)
			return nil
		}
	}
	return companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
}

// ModifyCounterOnCodex adjusts codex number n's counters wherever it lives.
func (e *Engine) ModifyCounterOnCodex(player string, n, delta int) error {
	if e.State.Codex.Has(n) {
		if err := e.State.Codex.ModifyCounters(n, delta); err != nil {
			return err
		}
		e.touch(player, LabelCodex)
		return nil
	}
	for nb, p := range e.State.Neighbourhoods {
		if p.HasCodex(n) {
			if err := p.ModifyCodexCounters(delta); err != nil {
				return err
			}
			e.touch(player, NeighbourhoodLabel(nb))
			return nil
		}
	}
	return companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
}

// FlipCodex marks codex number n flipped wherever it lives. Flipping is
// one-way: a flipped card stays flipped.
func (e *Engine) FlipCodex(player string, n int) error {
	if e.State.Codex.Has(n) {
		if err := e.State.Codex.Flip(n); err != nil {
			return err
		}
		e.touch(player, LabelCodex)
		return nil
	}
	for nb, p := range e.State.Neighbourhoods {
		if p.HasCodex(n) {
			if err := p.FlipCodex(); err != nil {
				return err
			}
			e.touch(player, NeighbourhoodLabel(nb))
			return nil
		}
	}
	return companionerr.Newf(companionerr.KindNotFound, "codex number %d not found", n)
}

// AddNeighbourhood unlocks a "later" neighbourhood pile. THE_UNDERWORLD is a
// special case: drawing it deals four EventDeck cards (doom accrues for each
// EmptyDeck), the first two go into the refreshed EventDeck, the last two to
// EventDiscard's bottom, and EventDeck is reshuffled.
func (e *Engine) AddNeighbourhood(player string, nb card.Neighbourhood) (int, error) {
	p, ok := e.State.Later.Neighbourhoods[nb]
	if !ok {
		return 0, companionerr.Newf(companionerr.KindNotFound, "neighbourhood %q is not pending", nb)
	}

	if nb == catalog.TheUnderworld {
		doom := 0
		drawn := make([]card.Card, 0, 4)
		for i := 0; i < 4; i++ {
			c, err := e.State.EventDeck.Draw(true)
			if err != nil {
				doom++
				continue
			}
			drawn = append(drawn, c)
		}
		for i := 0; i < len(drawn) && i < 2; i++ {
			e.State.EventDeck.Top(drawn[i])
		}
		for i := 2; i < len(drawn); i++ {
			e.State.EventDiscard.Bottom(drawn[i])
		}
		if extra, ok := e.State.Later.EventDecks[nb]; ok {
			for _, c := range extra {
				e.State.EventDeck.Top(c)
			}
			delete(e.State.Later.EventDecks, nb)
		}
		e.State.EventDeck.Shuffle()
		e.State.Neighbourhoods[nb] = p
		delete(e.State.Later.Neighbourhoods, nb)
		e.touch(player, NeighbourhoodLabel(nb), LabelEventDeck, LabelEventDiscard)
		return doom, nil
	}

	e.State.Neighbourhoods[nb] = p
	delete(e.State.Later.Neighbourhoods, nb)
	if extra, hasExtra := e.State.Later.EventDecks[nb]; hasExtra {
		for _, c := range extra {
			e.State.EventDeck.Top(c)
		}
		delete(e.State.Later.EventDecks, nb)
		e.State.EventDeck.ShuffleDiscard(e.State.EventDiscard)
		e.touch(player, NeighbourhoodLabel(nb), LabelEventDeck, LabelEventDiscard)
		return 0, nil
	}
	e.touch(player, NeighbourhoodLabel(nb))
	return 0, nil
}
