package deckfactory

import (
	"testing"

	"companion/internal/catalog"
)

func TestBuildRejectsInvalidSettings(t *testing.T) {
	if _, err := Build(catalog.ShotsInTheDark, 0); err == nil {
		t.Fatal("expected InvalidSettings when the required expansion is absent")
	}
}

func TestBuildInstallsStartNeighbourhoods(t *testing.T) {
	state, err := Build(catalog.FeastForUmordhoth, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := catalog.RequiredNeighbourhoods[catalog.FeastForUmordhoth].Start
	if len(state.Neighbourhoods) != len(want) {
		t.Fatalf("expected %d neighbourhoods, got %d", len(want), len(state.Neighbourhoods))
	}
	for _, nb := range want {
		if _, ok := state.Neighbourhoods[nb]; !ok {
			t.Errorf("expected neighbourhood %q to be installed", nb)
		}
	}
}

func TestBuildHoldsLaterNeighbourhoodsAside(t *testing.T) {
	state, err := Build(catalog.DreamsOfRlyeh, int(catalog.UnderDarkWaves))
	if err != nil {
		t.Fatal(err)
	}
	laterSet := catalog.RequiredNeighbourhoods[catalog.DreamsOfRlyeh].Later
	if len(state.Later.Neighbourhoods) != len(laterSet) {
		t.Fatalf("expected %d later neighbourhoods, got %d", len(laterSet), len(state.Later.Neighbourhoods))
	}
	for _, nb := range laterSet {
		if _, ok := state.Neighbourhoods[nb]; ok {
			t.Errorf("neighbourhood %q should not be installed yet", nb)
		}
	}
}

func TestBuildCapsHeadlineAtThirteen(t *testing.T) {
	state, err := Build(catalog.FeastForUmordhoth, 0)
	if err != nil {
		t.Fatal(err)
	}
	if state.Headline.Len() > 13 {
		t.Fatalf("expected headline pile capped at 13, got %d", state.Headline.Len())
	}
}

func TestBuildOmitsTerrorForNonTerrorScenario(t *testing.T) {
	state, err := Build(catalog.FeastForUmordhoth, 0)
	if err != nil {
		t.Fatal(err)
	}
	if state.Terror != nil {
		t.Fatal("expected no terror pile for a scenario without one")
	}
}

func TestBuildArchiveClassifiesCodexNeighbourhoodCards(t *testing.T) {
	state, err := Build(catalog.ApproachOfAzathoth, 0)
	if err != nil {
		t.Fatal(err)
	}
	for n, c := range state.Archive.Cards {
		wantNb, isNbCard := catalog.CodexNeighbourhoods[n]
		if isNbCard && c.Neighbourhood != wantNb {
			t.Errorf("codex %d: expected neighbourhood %q, got %q", n, wantNb, c.Neighbourhood)
		}
	}
}
