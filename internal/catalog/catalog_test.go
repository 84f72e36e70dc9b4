package catalog

import "testing"

func TestValidateSettingsBaseGame(t *testing.T) {
	if err := ValidateSettings(ApproachOfAzathoth, 0); err != nil {
		t.Fatalf("base-game scenario should validate with no expansions: %v", err)
	}
}

func TestValidateSettingsRequiresExpansion(t *testing.T) {
	if err := ValidateSettings(ShotsInTheDark, 0); err == nil {
		t.Fatal("expected InvalidSettings when the required expansion is missing")
	}
	if err := ValidateSettings(ShotsInTheDark, int(DeadOfNight)); err != nil {
		t.Fatalf("expected scenario to validate once its expansion is selected: %v", err)
	}
}

func TestValidateSettingsUnknownScenario(t *testing.T) {
	if err := ValidateSettings("Not A Real Scenario", 7); err == nil {
		t.Fatal("expected an error for an unrecognized scenario")
	}
}

func TestCodexNeighbourhoodsAgreeWithClassificationSets(t *testing.T) {
	for n := range CodexNeighbourhoods {
		if CodexItems[n] || CodexMonsters[n] {
			t.Errorf("codex %d is both neighbourhood-attached and item/monster classified", n)
		}
	}
}

func TestRequiredNeighbourhoodsCoverEveryScenarioWithAnExpansion(t *testing.T) {
	for scenario := range ScenarioByExpansion {
		if _, ok := RequiredNeighbourhoods[scenario]; !ok {
			t.Errorf("scenario %q has an expansion requirement but no neighbourhood set", scenario)
		}
	}
}
