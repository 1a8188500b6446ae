package pipeline

import (
	"testing"

	"crewmatch/pkg/models"
)

func ids(candidates []*models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestNationalityFilter_AliasFormsAreHard(t *testing.T) {
	f := &nationalityFilter{excluded: []string{"ZA"}}

	candidates := []*models.Candidate{
		{ID: "a", Nationality: "South African"},
		{ID: "b", Nationality: "South Africa"},
		{ID: "c", Nationality: "Filipino"},
		{ID: "d", Nationality: "British", SecondNationality: "ZA"},
	}

	kept, step := f.Apply(candidates)
	if step.Dropped != 3 || len(kept) != 1 || kept[0].ID != "c" {
		t.Errorf("kept = %v (dropped %d), want only c", ids(kept), step.Dropped)
	}
}

func TestNationalityFilter_EmptyExclusionsPassThrough(t *testing.T) {
	f := &nationalityFilter{}
	candidates := []*models.Candidate{{ID: "a", Nationality: "South African"}}

	kept, step := f.Apply(candidates)
	if len(kept) != 1 || step.Dropped != 0 {
		t.Errorf("empty exclusion set must keep everyone, kept %v", ids(kept))
	}
}

func TestLicenseFilter_LadderComparison(t *testing.T) {
	f := &licenseFilter{required: "OOW_3000"}

	candidates := []*models.Candidate{
		{ID: "exact", HighestLicense: "OOW 3000"},
		{ID: "above", HighestLicense: "MASTER_500"},
		{ID: "below", HighestLicense: "YACHTMASTER_OCEAN"},
		{ID: "crossladder", HighestLicense: "CHIEF_ENGINEER"},
		{ID: "none", HighestLicense: ""},
	}

	kept, _ := f.Apply(candidates)
	got := ids(kept)
	if len(got) != 2 || got[0] != "exact" || got[1] != "above" {
		t.Errorf("kept = %v, want [exact above]", got)
	}
}

func TestCategoryFilter_InfersFromFreeText(t *testing.T) {
	f := &categoryFilter{accepted: []string{"officer"}}

	candidates := []*models.Candidate{
		{ID: "direct", Category: "officer"},
		{ID: "secondary", Category: "captain", SecondaryCategory: "officer"},
		{ID: "inferred", Category: "", PrimaryPosition: "2nd Officer / Medic"},
		{ID: "wrong", Category: "", PrimaryPosition: "Head Chef"},
		{ID: "other", Category: "deckhand", PrimaryPosition: "Deckhand"},
	}

	kept, _ := f.Apply(candidates)
	got := ids(kept)
	if len(got) != 3 || got[0] != "direct" || got[1] != "secondary" || got[2] != "inferred" {
		t.Errorf("kept = %v, want [direct secondary inferred]", got)
	}
}

func TestBuildFilters_ScenarioHardExclusion(t *testing.T) {
	// Job requires STCW and ENG1 and excludes South Africans. Candidate A
	// (South African, both certs) must fall to the nationality filter even
	// though every other predicate passes. Cert filtering itself happens at
	// retrieval, so candidate C sails through the in-memory passes.
	req := &models.Requirements{
		PositionCode:          "deckhand",
		RequiredCerts:         []string{"STCW", "ENG1"},
		ExcludedNationalities: []string{"ZA"},
	}

	candidateA := &models.Candidate{ID: "a", Category: "deckhand", Nationality: "South African"}
	candidateC := &models.Candidate{ID: "c", Category: "deckhand", Nationality: "Filipino"}

	kept := []*models.Candidate{candidateA, candidateC}
	for _, f := range buildFilters(req) {
		kept, _ = f.Apply(kept)
	}

	if len(kept) != 1 || kept[0].ID != "c" {
		t.Errorf("kept = %v, want only candidate c", ids(kept))
	}
}
