package results

import (
	"testing"

	"crewmatch/pkg/models"
)

func resultWith(id string, deterministic, aiDelta float64) *models.MatchResult {
	return &models.MatchResult{
		Candidate: &models.Candidate{ID: id, FirstName: "Test", LastName: id},
		Breakdown: models.ScoreBreakdown{Categories: []models.CategoryScore{
			{Name: models.CategoryQualifications, Achieved: deterministic, Maximum: 90,
				Rationale: []string{"holds all 2 required certificates", "missing travel document SCHENGEN"}},
			{Name: models.CategoryAIAssessment, Achieved: aiDelta, Maximum: 10},
		}},
	}
}

func TestAssemble_RetotalsAndResorts(t *testing.T) {
	a := NewAssembler()

	// b has the higher deterministic score but a poor AI delta.
	results := a.Assemble([]*models.MatchResult{
		resultWith("b", 80, 1),
		resultWith("a", 75, 9),
	}, 10)

	if results[0].Candidate.ID != "a" || results[0].Score != 84 {
		t.Errorf("results[0] = %s/%v, want a/84", results[0].Candidate.ID, results[0].Score)
	}
	if results[1].Candidate.ID != "b" || results[1].Score != 81 {
		t.Errorf("results[1] = %s/%v, want b/81", results[1].Candidate.ID, results[1].Score)
	}
}

func TestAssemble_TruncatesToLimit(t *testing.T) {
	a := NewAssembler()

	results := a.Assemble([]*models.MatchResult{
		resultWith("a", 80, 5),
		resultWith("b", 70, 5),
		resultWith("c", 60, 5),
	}, 2)

	if len(results) != 2 {
		t.Errorf("len = %d, want limit 2", len(results))
	}
}

func TestAssemble_DerivesStrengthsAndConcerns(t *testing.T) {
	a := NewAssembler()

	results := a.Assemble([]*models.MatchResult{resultWith("a", 80, 5)}, 10)
	r := results[0]

	if !contains(r.Strengths, "holds all 2 required certificates") {
		t.Errorf("strengths = %v, want the positive rationale", r.Strengths)
	}
	if !contains(r.Concerns, "missing travel document SCHENGEN") {
		t.Errorf("concerns = %v, want the negative rationale", r.Concerns)
	}
}

func TestIsNegative(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"holds all required certificates", false},
		{"missing certificate ENG1", true},
		{"2.0 years of experience is below the 5.0 year minimum", true},
		{"immediately available", false},
		{"currently unavailable", true},
		{"no evidence of floristry in profile", true},
	}
	for _, tc := range cases {
		if got := isNegative(tc.text); got != tc.want {
			t.Errorf("isNegative(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
