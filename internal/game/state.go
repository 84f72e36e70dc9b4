// Package game implements the authoritative GameState aggregate: the
// label-addressed collection of piles and the operation vocabulary that
// mutates them. It wires every mutating operation's touched-label set into
// internal/history, following the same single mutex-guarded aggregate
// pattern as onchainpoker/apps/chain/internal/app.OCPApp, where the write
// path and audit trail are inseparable.
package game

import (
	"companion/internal/card"
	"companion/internal/catalog"
	"companion/internal/companionerr"
	"companion/internal/deck"
	"companion/internal/history"

	"github.com/google/uuid"
)

// Fixed labels, shared across every scenario.
const (
	LabelEventDeck      history.Label = "EventDeck"
	LabelEventDiscard    history.Label = "EventDiscard"
	LabelHeadline        history.Label = "Headline"
	LabelCodex           history.Label = "Codex"
	LabelArchive         history.Label = "Archive"
	LabelTerror          history.Label = "Terror"
	LabelRumor           history.Label = "Rumor"
	LabelActionRequired history.Label = "ActionRequired"
)

// NeighbourhoodLabel returns the pile label for a neighbourhood.
func NeighbourhoodLabel(nb card.Neighbourhood) history.Label {
	return history.Label(nb)
}

// Later holds piles built by the factory but not yet installed, keyed by the
// neighbourhood that unlocks them.
type Later struct {
	Neighbourhoods map[card.Neighbourhood]*deck.NeighbourhoodPile
	EventDecks     map[card.Neighbourhood][]card.Card
}

// State is the full authoritative game state for one session.
type State struct {
	Scenario   catalog.Scenario
	Expansions int

	EventDeck      *deck.EventPile
	EventDiscard   *deck.EventPile
	Headline       *deck.Ordered
	Codex          *deck.Keyed
	Archive        *deck.Keyed
	Terror         *deck.Ordered // nil if the scenario has no terror pile
	Rumor          *deck.Ordered
	ActionRequired *deck.PendingAction

	Neighbourhoods map[card.Neighbourhood]*deck.NeighbourhoodPile

	Later Later
}

// Snapshot implements history.Snapshotter: it returns a deep copy of the
// value currently held under label.
func (s *State) Snapshot(label history.Label) any {
	switch label {
	case LabelEventDeck:
		return s.EventDeck.Clone()
	case LabelEventDiscard:
		return s.EventDiscard.Clone()
	case LabelHeadline:
		return s.Headline.Clone()
	case LabelCodex:
		return s.Codex.Clone()
	case LabelArchive:
		return s.Archive.Clone()
	case LabelTerror:
		if s.Terror == nil {
			return (*deck.Ordered)(nil)
		}
		return s.Terror.Clone()
	case LabelRumor:
		return s.Rumor.Clone()
	case LabelActionRequired:
		return s.ActionRequired.Clone()
	default:
		nb := card.Neighbourhood(label)
		p, ok := s.Neighbourhoods[nb]
		if !ok {
			return (*deck.NeighbourhoodPile)(nil)
		}
		return p.Clone()
	}
}

// Restore implements history.Snapshotter: it installs a deep copy of
// snapshot as the current value under label, so later operations on the
// live pile never modify the stored snapshot.
func (s *State) Restore(label history.Label, snapshot any) {
	switch label {
	case LabelEventDeck:
		s.EventDeck = snapshot.(*deck.EventPile).Clone()
	case LabelEventDiscard:
		s.EventDiscard = snapshot.(*deck.EventPile).Clone()
	case LabelHeadline:
		s.Headline = snapshot.(*deck.Ordered).Clone()
	case LabelCodex:
		s.Codex = snapshot.(*deck.Keyed).Clone()
	case LabelArchive:
		s.Archive = snapshot.(*deck.Keyed).Clone()
	case LabelTerror:
		t := snapshot.(*deck.Ordered)
		if t != nil {
			t = t.Clone()
		}
		s.Terror = t
	case LabelRumor:
		s.Rumor = snapshot.(*deck.Ordered).Clone()
	case LabelActionRequired:
		s.ActionRequired = snapshot.(*deck.PendingAction).Clone()
	default:
		nb := card.Neighbourhood(label)
		p := snapshot.(*deck.NeighbourhoodPile)
		if p == nil {
			delete(s.Neighbourhoods, nb)
			return
		}
		s.Neighbourhoods[nb] = p.Clone()
	}
}

// AllLabels returns every label this state may ever touch, used to seed a
// history.Engine's timelines.
func (s *State) AllLabels() []history.Label {
	labels := []history.Label{
		LabelEventDeck, LabelEventDiscard, LabelHeadline, LabelCodex,
		LabelArchive, LabelTerror, LabelRumor, LabelActionRequired,
	}
	for nb := range s.Neighbourhoods {
		labels = append(labels, NeighbourhoodLabel(nb))
	}
	return labels
}

// newTicket generates a fresh opaque ticket string for ActionRequired
// entries.
func newTicket() string {
	return uuid.NewString()
}

// Engine bundles a State with the history.Engine tracking it, plus the
// per-operation entry point that records touched labels on behalf of the
// acting player.
type Engine struct {
	State   *State
	History *history.Engine
}

// NewEngine builds an Engine over state, seeding the history with every label
// from AllLabels. No player is registered; callers add players with
// History.AddPlayer.
func NewEngine(state *State) *Engine {
	h := history.NewEngine(state, state.AllLabels())
	return &Engine{State: state, History: h}
}

// touch records a player's change-set after a mutation. Every exported
// operation calls this exactly once, right before returning success;
// SpreadDoom and SpreadClue also call it before returning EmptyDeck, since
// their reshuffle has already changed the piles.
func (e *Engine) touch(player string, labels ...history.Label) {
	e.History.Record(player, labels)
}

func mustNeighbourhood(s *State, nb card.Neighbourhood) (*deck.NeighbourhoodPile, error) {
	p, ok := s.Neighbourhoods[nb]
	if !ok || p == nil {
		return nil, companionerr.Newf(companionerr.KindNotFound, "neighbourhood %q not present", nb)
	}
	return p, nil
}
