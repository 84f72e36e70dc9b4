// Package catalog holds the static scenario/expansion reference tables:
// required neighbourhoods, required codex numbers, headline rumor numbers,
// and codex classification sets. It is pure data plus pure lookup functions,
// following the same plain-struct-and-map style as
// onchainpoker/apps/chain/internal/state.NewState building zero-value
// aggregates from constants.
package catalog

import (
	"companion/internal/card"
	"companion/internal/companionerr"
)

// Scenario names one of the supported game scenarios.
type Scenario string

const (
	ApproachOfAzathoth    Scenario = "Approach of Azathoth"
	FeastForUmordhoth     Scenario = "Feast for Umordhoth"
	VeilOfTwilight        Scenario = "Veil of Twilight"
	EchoesOfTheDeep       Scenario = "Echoes of the Deep"
	ShotsInTheDark        Scenario = "Shots in the Dark"
	SilenceOfTsathoggua   Scenario = "Silence of Tsathoggua"
	DreamsOfRlyeh         Scenario = "Dreams of R'lyeh"
	ThePaleLantern        Scenario = "The Pale Lantern"
	TyrantsOfRuin         Scenario = "Tyrants of Ruin"
	IthaquasChildren      Scenario = "Ithaqua's Children"
	TheDeadCryOut         Scenario = "The Dead Cry Out"
	TheKeyAndTheGate      Scenario = "The Key and the Gate"
	BoundToServe          Scenario = "Bound to Serve"
)

// Expansion is a bitflag identifying one expansion.
type Expansion int

const (
	DeadOfNight         Expansion = 1
	UnderDarkWaves       Expansion = 2
	SecretsOfTheOrder    Expansion = 4
)

// Terror names a scenario-specific terror kind.
type Terror string

const (
	FeedingFrenzy Terror = "Feeding Frenzy"
	FrozenCity    Terror = "Frozen City"
)

const (
	Downtown              card.Neighbourhood = "Downtown"
	Easttown              card.Neighbourhood = "Easttown"
	MerchantDistrict       card.Neighbourhood = "Merchant District"
	MiskatonicUniversity  card.Neighbourhood = "Miskatonic University"
	Northside             card.Neighbourhood = "Northside"
	Rivertown              card.Neighbourhood = "Rivertown"
	Southside              card.Neighbourhood = "Southside"
	Uptown                 card.Neighbourhood = "Uptown"
	TheStreets             card.Neighbourhood = "The Streets"
	CentralKingsport       card.Neighbourhood = "Central Kingsport"
	InnsmouthShore         card.Neighbourhood = "Innsmouth Shore"
	InnsmouthVillage       card.Neighbourhood = "Innsmouth Village"
	KingsportHarbor        card.Neighbourhood = "Kingsport Harbor"
	TravelRoutes           card.Neighbourhood = "Travel Routes"
	DevilReef              card.Neighbourhood = "Devil Reef"
	StrangeHighHouse       card.Neighbourhood = "Strange High House"
	FrenchHill             card.Neighbourhood = "French Hill"
	TheUnderworld          card.Neighbourhood = "The Underworld"
	Thresholds             card.Neighbourhood = "Thresholds"
	TheUnnamable           card.Neighbourhood = "The Unnamable"
	WitchHouse             card.Neighbourhood = "Witch House"
)

// ScenarioByExpansion maps a scenario to the expansion bit that unlocks it.
// Base-game scenarios are absent (any expansion mask, zero included, is valid
// for them, per the original's validator semantics: missing entries mean "no
// extra expansion required").
var ScenarioByExpansion = map[Scenario]Expansion{
	ShotsInTheDark:      DeadOfNight,
	SilenceOfTsathoggua: DeadOfNight,
	DreamsOfRlyeh:       UnderDarkWaves,
	ThePaleLantern:      UnderDarkWaves,
	TyrantsOfRuin:       UnderDarkWaves,
	IthaquasChildren:    UnderDarkWaves,
	TheDeadCryOut:       SecretsOfTheOrder,
	TheKeyAndTheGate:    SecretsOfTheOrder,
	BoundToServe:        SecretsOfTheOrder,
}

// HeadlineRumors lists, per expansion, the headline card numbers that are
// rumors.
var HeadlineRumors = map[Expansion][]int{
	0:                 {6, 7, 10, 11}, // base game, keyed by zero since it carries no expansion bit
	DeadOfNight:       {4, 6},
	UnderDarkWaves:    {},
	SecretsOfTheOrder: {0},
}

func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// RequiredCodex lists the codex numbers a scenario requires in its archive.
var RequiredCodex = map[Scenario][]int{
	ApproachOfAzathoth:  append([]int{2}, intRange(3, 9)...),
	FeastForUmordhoth:   append([]int{1}, intRange(10, 19)...),
	VeilOfTwilight:      append([]int{2}, intRange(20, 28)...),
	EchoesOfTheDeep:     append([]int{2}, intRange(29, 40)...),
	ShotsInTheDark:      append([]int{1}, intRange(41, 52)...),
	SilenceOfTsathoggua: append([]int{2}, intRange(53, 59)...),
	TyrantsOfRuin:       intRange(61, 75),
	ThePaleLantern:      append([]int{2}, intRange(76, 90)...),
	IthaquasChildren:    append([]int{61}, intRange(91, 105)...),
	DreamsOfRlyeh:       append([]int{2}, intRange(106, 120)...),
	BoundToServe:        append([]int{2}, intRange(121, 134)...),
	TheDeadCryOut:       append([]int{1}, intRange(135, 149)...),
	TheKeyAndTheGate:    append([]int{2}, intRange(150, 164)...),
}

// DefaultTerrorNeighbourhood names the destination for spread_terror when the
// event discard is empty.
var DefaultTerrorNeighbourhood = map[Scenario]card.Neighbourhood{
	TyrantsOfRuin:    InnsmouthShore,
	IthaquasChildren: Easttown,
}

// ScenarioTerrorMap tells which scenarios carry a Terror pile at all.
var ScenarioTerrorMap = map[Scenario]Terror{
	TyrantsOfRuin:    FeedingFrenzy,
	IthaquasChildren: FrozenCity,
}

var CodexItems = intSet(68, 69, 70, 90)
var CodexMonsters = intSet(19, 28, 39, 40, 60, 74, 75, 89, 104, 105, 145, 146)
var CodexAttachable = intSet(32, 33, 34, 35, 55, 56)
var CodexEncounters = intSet(13, 14, 15, 16, 17, 147, 148, 149, 161, 162, 163, 164, 168)
var CodexShuffleEncounters = intSet(13, 14, 15, 16, 17)
var CodexTopEncounters = intSet(161, 162, 163, 164, 168)

var CodexNeighbourhoods = map[int]card.Neighbourhood{
	13:  Downtown,
	14:  Easttown,
	15:  Rivertown,
	16:  Uptown,
	17:  Southside,
	32:  Rivertown,
	33:  Downtown,
	34:  Northside,
	35:  MiskatonicUniversity,
	55:  Northside,
	56:  Uptown,
	147: TheUnderworld,
	148: TheUnderworld,
	149: TheUnderworld,
	161: Easttown,
	162: FrenchHill,
	163: MerchantDistrict,
	164: Rivertown,
	168: Uptown,
}

// NeighbourhoodSet is the start/later split for a scenario's neighbourhood
// piles: later piles are held aside until the scenario unlocks them.
type NeighbourhoodSet struct {
	Start []card.Neighbourhood
	Later []card.Neighbourhood
}

var RequiredNeighbourhoods = map[Scenario]NeighbourhoodSet{
	ApproachOfAzathoth: {Start: []card.Neighbourhood{Northside, Downtown, Easttown, MerchantDistrict, Rivertown, TheStreets}},
	FeastForUmordhoth:  {Start: []card.Neighbourhood{Downtown, Easttown, Rivertown, Uptown, Southside, TheStreets}},
	VeilOfTwilight:     {Start: []card.Neighbourhood{Northside, Rivertown, Southside, MiskatonicUniversity, Uptown, TheStreets}},
	EchoesOfTheDeep:    {Start: []card.Neighbourhood{MiskatonicUniversity, MerchantDistrict, Northside, Rivertown, Downtown, TheStreets}},
	ShotsInTheDark:     {Start: []card.Neighbourhood{Downtown, Easttown, Rivertown, Northside, MerchantDistrict, TheStreets}},
	SilenceOfTsathoggua: {Start: []card.Neighbourhood{Northside, MerchantDistrict, Rivertown, MiskatonicUniversity, Uptown, TheStreets}},
	DreamsOfRlyeh: {
		Start: []card.Neighbourhood{MiskatonicUniversity, Rivertown, Uptown, Southside, TheStreets},
		Later: []card.Neighbourhood{CentralKingsport, KingsportHarbor, InnsmouthShore, InnsmouthVillage},
	},
	ThePaleLantern: {Start: []card.Neighbourhood{Downtown, MiskatonicUniversity, Uptown, CentralKingsport, KingsportHarbor, TheStreets, TravelRoutes, StrangeHighHouse}},
	TyrantsOfRuin:  {Start: []card.Neighbourhood{Northside, Easttown, MiskatonicUniversity, Southside, InnsmouthShore, InnsmouthVillage, TheStreets, TravelRoutes, DevilReef}},
	IthaquasChildren: {Start: []card.Neighbourhood{Downtown, Northside, Rivertown, Easttown, Southside, InnsmouthShore, CentralKingsport, TheStreets, TravelRoutes}},
	TheDeadCryOut: {Start: []card.Neighbourhood{Northside, Easttown, MiskatonicUniversity, TheUnderworld, FrenchHill, Uptown, Southside, TheStreets, Thresholds}},
	TheKeyAndTheGate: {
		Start: []card.Neighbourhood{Easttown, FrenchHill, Uptown, Rivertown, MerchantDistrict, TheStreets, TheUnnamable},
		Later: []card.Neighbourhood{Thresholds, TheUnderworld},
	},
	BoundToServe: {Start: []card.Neighbourhood{Downtown, MerchantDistrict, Rivertown, FrenchHill, Uptown, Southside, TheStreets, WitchHouse}},
}

func intSet(nums ...int) map[int]bool {
	out := make(map[int]bool, len(nums))
	for _, n := range nums {
		out[n] = true
	}
	return out
}

// ValidateSettings rejects a scenario that isn't recognized, and a scenario
// whose required expansion bit is absent from the supplied mask.
func ValidateSettings(scenario Scenario, expansions int) error {
	if _, ok := RequiredNeighbourhoods[scenario]; !ok {
		return companionerr.Newf(companionerr.KindInvalidSettings, "unknown scenario %q", scenario)
	}
	required, ok := ScenarioByExpansion[scenario]
	if !ok {
		// Base-game scenario: no specific expansion bit required.
		return nil
	}
	if expansions&int(required) == 0 {
		return companionerr.Newf(companionerr.KindInvalidSettings, "scenario %q requires an expansion not selected", scenario)
	}
	return nil
}
