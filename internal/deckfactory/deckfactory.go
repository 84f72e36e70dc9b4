// Package deckfactory builds the initial label→pile map for a scenario and
// expansion selection, mirroring the original construction order in
// companion/decks.py's deck-building helpers: neighbourhoods first, then the
// event deck split by "later" neighbourhoods, then headline capped at
// thirteen cards, then archive and codex, then the optional terror pile.
package deckfactory

import (
	"fmt"

	"companion/internal/card"
	"companion/internal/catalog"
	"companion/internal/companionerr"
	"companion/internal/deck"
	"companion/internal/game"
)

// imageID synthesizes an opaque image identifier by joining parts with
// underscores; case is kept as given (wire.NewCardView lowercases face/back
// when a card is sent). Real asset names live in the client's resource
// bundle; the server only ever treats face/back as opaque strings it echoes
// back on the wire.
func imageID(parts ...string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "_"
		}
		s += p
	}
	return s
}

// Build constructs a fresh game.State for scenario and expansions. It
// validates settings first and fails InvalidSettings on a bad combination.
func Build(scenario catalog.Scenario, expansions int) (*game.State, error) {
	if err := catalog.ValidateSettings(scenario, expansions); err != nil {
		return nil, err
	}

	nbSet, ok := catalog.RequiredNeighbourhoods[scenario]
	if !ok {
		return nil, companionerr.Newf(companionerr.KindInvalidSettings, "unknown scenario %q", scenario)
	}

	neighbourhoods := make(map[card.Neighbourhood]*deck.NeighbourhoodPile, len(nbSet.Start))
	for _, nb := range nbSet.Start {
		neighbourhoods[nb] = buildNeighbourhoodPile(nb)
	}

	laterNeighbourhoods := make(map[card.Neighbourhood]*deck.NeighbourhoodPile, len(nbSet.Later))
	for _, nb := range nbSet.Later {
		laterNeighbourhoods[nb] = buildNeighbourhoodPile(nb)
	}

	allNeighbourhoods := append(append([]card.Neighbourhood(nil), nbSet.Start...), nbSet.Later...)
	eventDeck, laterEventDecks := buildEventDeck(allNeighbourhoods, nbSet.Later)

	headline := buildHeadline(expansions)

	archive := buildArchive(scenario)
	codex := deck.NewKeyed()

	var terror *deck.Ordered
	if _, hasTerror := catalog.ScenarioTerrorMap[scenario]; hasTerror {
		terror = buildTerror()
	}

	state := &game.State{
		Scenario:       scenario,
		Expansions:     expansions,
		EventDeck:      eventDeck,
		EventDiscard:   deck.NewEventPile(),
		Headline:       headline,
		Codex:          codex,
		Archive:        archive,
		Terror:         terror,
		Rumor:          deck.NewOrdered(),
		ActionRequired: deck.NewPendingAction(),
		Neighbourhoods: neighbourhoods,
		Later: game.Later{
			Neighbourhoods: laterNeighbourhoods,
			EventDecks:     laterEventDecks,
		},
	}
	return state, nil
}

// neighbourhoodPileSize is the starting card count synthesized into each
// neighbourhood's encounter pile.
const neighbourhoodPileSize = 8

// buildNeighbourhoodPile creates nb's starting encounter pile. Real
// deployments populate this from the scenario's per-neighbourhood encounter
// card list; the wire-level contract only depends on pile shape and card
// tagging, so cards are synthesized here as a placeholder encounter set.
func buildNeighbourhoodPile(nb card.Neighbourhood) *deck.NeighbourhoodPile {
	cards := make([]card.Card, 0, neighbourhoodPileSize)
	for i := 0; i < neighbourhoodPileSize; i++ {
		cards = append(cards, card.Card{
			Kind:          card.KindNeighbourhood,
			Face:          imageID(string(nb), "encounter", fmt.Sprint(i)),
			Back:          imageID("back", "encounter"),
			Neighbourhood: nb,
		})
	}
	p := deck.NewNeighbourhoodPile(imageID("back", "encounter"), cards...)
	p.Shuffle()
	return p
}

// buildEventDeck constructs the combined event deck across all
// neighbourhoods in play, then splits out the cards belonging to "later"
// neighbourhoods into laterEventDecks so AddNeighbourhood can reintroduce
// them when that neighbourhood unlocks.
func buildEventDeck(all []card.Neighbourhood, later []card.Neighbourhood) (*deck.EventPile, map[card.Neighbourhood][]card.Card) {
	cards := make([]card.Card, 0, len(all)*3)
	for _, nb := range all {
		for i := 0; i < 3; i++ {
			cards = append(cards, card.Card{
				Kind:          card.KindNeighbourhood,
				Face:          imageID(string(nb), fmt.Sprint(i)),
				Back:          imageID("back", "event"),
				Neighbourhood: nb,
				IsEvent:       i == 0,
			})
		}
	}
	pile := deck.NewEventPile(cards...)
	later2 := pile.RemoveNeighbourhood(later)
	return pile, later2
}

// buildHeadline builds the headline pile: base-game plus enabled expansions'
// cards, rumor cards flagged via catalog.HeadlineRumors, shuffled, then
// capped to the top thirteen.
func buildHeadline(expansions int) *deck.Ordered {
	var cards []card.Card
	addSet := func(mask catalog.Expansion) {
		nums, ok := catalog.HeadlineRumors[mask]
		if !ok {
			return
		}
		rumor := make(map[int]bool, len(nums))
		for _, n := range nums {
			rumor[n] = true
		}
		for n := 0; n < 20; n++ {
			counters := -1
			if rumor[n] {
				counters = 0
			}
			cards = append(cards, card.Card{
				Kind:     card.KindHeadline,
				Face:     imageID("headline", fmt.Sprint(mask), fmt.Sprint(n)),
				Back:     imageID("back", "headline"),
				IsRumor:  rumor[n],
				Counters: counters,
			})
		}
	}
	addSet(0)
	for _, mask := range []catalog.Expansion{catalog.DeadOfNight, catalog.UnderDarkWaves, catalog.SecretsOfTheOrder} {
		if expansions&int(mask) != 0 {
			addSet(mask)
		}
	}

	pile := &deck.Ordered{Cards: cards}
	pile.Shuffle()
	if len(pile.Cards) > 13 {
		pile.Cards = pile.Cards[len(pile.Cards)-13:]
	}
	return pile
}

// buildArchive populates Archive with every codex number the scenario
// requires, branching into CodexNeighbourhood vs plain Codex per the
// catalog's classification tables.
func buildArchive(scenario catalog.Scenario) *deck.Keyed {
	archive := deck.NewKeyed()
	for _, n := range catalog.RequiredCodex[scenario] {
		if nb, ok := catalog.CodexNeighbourhoods[n]; ok {
			archive.AddCard(card.Card{
				Kind:          card.KindCodexNeighbourhood,
				Face:          imageID("codex", fmt.Sprint(n)),
				Back:          imageID("back", "codex"),
				Number:        n,
				Neighbourhood: nb,
				CanAttach:     catalog.CodexAttachable[n],
				IsEncounter:   catalog.CodexEncounters[n],
			})
			continue
		}
		archive.AddCard(card.Card{
			Kind:      card.KindCodex,
			Face:      imageID("codex", fmt.Sprint(n)),
			Back:      imageID("back", "codex"),
			Number:    n,
			IsItem:    catalog.CodexItems[n],
			IsMonster: catalog.CodexMonsters[n],
		})
	}
	return archive
}

// buildTerror creates a small placeholder terror pile. Real terror card
// counts and imagery are scenario-specific encounter content outside this
// server's authoritative concerns (the client supplies card artwork).
func buildTerror() *deck.Ordered {
	cards := make([]card.Card, 0, 10)
	for i := 0; i < 10; i++ {
		cards = append(cards, card.Card{
			Kind: card.KindPlain,
			Face: imageID("terror", fmt.Sprint(i)),
			Back: imageID("back", "terror"),
		})
	}
	return deck.NewOrdered(cards...)
}
