package results

import (
	"strings"
	"testing"

	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

func sanitizerResult() *models.MatchResult {
	return &models.MatchResult{
		Candidate: &models.Candidate{
			ID: "c1", FirstName: "Jane", LastName: "Doe",
			Email: "jane@example.com", Phone: "+44 1234",
			PrimaryPosition: "Chief Stewardess", YearsExperience: 7,
			VerificationTier: models.VerificationFull, ReferenceCount: 3,
		},
		Score:     82,
		Strengths: []string{"holds all required certificates", "missing one preferred skill"},
		Concerns:  []string{"missing travel document SCHENGEN"},
		Summary:   "Strong interior leader. Missing Schengen visa is a concern. Excellent charter pedigree.",
		Breakdown: models.ScoreBreakdown{Categories: []models.CategoryScore{
			{Name: models.CategoryQualifications, Achieved: 20, Maximum: 25},
		}},
	}
}

func TestProject_OperatorKeepsEverything(t *testing.T) {
	views, err := NewSanitizer().Project([]*models.MatchResult{sanitizerResult()}, models.ViewerOperator)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	ops := views.([]models.OperatorMatchView)
	if ops[0].Email == "" || len(ops[0].Concerns) == 0 || len(ops[0].Breakdown.Categories) == 0 {
		t.Errorf("operator view must be unrestricted: %+v", ops[0])
	}
}

func TestProject_ClientViewRoundTripSafety(t *testing.T) {
	views, err := NewSanitizer().Project([]*models.MatchResult{sanitizerResult()}, models.ViewerClient)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	clients := views.([]models.ClientMatchView)
	v := clients[0]

	// No sentence in any client-visible text may carry a negative keyword.
	visible := append([]string{v.Summary}, v.Strengths...)
	for _, text := range visible {
		for _, sentence := range utils.SplitSentences(text) {
			if isNegative(sentence) {
				t.Errorf("negative sentence leaked to client view: %q", sentence)
			}
		}
	}

	if !strings.Contains(v.Summary, "Strong interior leader") || !strings.Contains(v.Summary, "charter pedigree") {
		t.Errorf("positive sentences must survive sanitization: %q", v.Summary)
	}
	if v.ReferenceBadge != "strong references" {
		t.Errorf("badge = %q", v.ReferenceBadge)
	}
}

func TestProject_AnonymousViewCarriesNoIdentity(t *testing.T) {
	views, err := NewSanitizer().Project([]*models.MatchResult{sanitizerResult(), sanitizerResult()}, models.ViewerAnonymous)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	anons := views.([]models.AnonymousMatchView)

	if anons[0].Reference != "Candidate A" || anons[1].Reference != "Candidate B" {
		t.Errorf("references = %q, %q", anons[0].Reference, anons[1].Reference)
	}
	if anons[0].ExperienceBand != "5-10 years" {
		t.Errorf("band = %q", anons[0].ExperienceBand)
	}
	for _, anon := range anons {
		if strings.Contains(anon.Summary, "Jane") || strings.Contains(anon.Summary, "Doe") {
			t.Errorf("identity leaked into anonymous summary: %q", anon.Summary)
		}
	}
}

func TestProject_UnknownViewer(t *testing.T) {
	if _, err := NewSanitizer().Project(nil, "superuser"); err == nil {
		t.Fatal("unknown viewer class must be an error")
	}
}

func TestStripNegativeSentences(t *testing.T) {
	in := "Great leader. Missing ENG1 certificate. Team player!"
	got := StripNegativeSentences(in)
	if strings.Contains(got, "Missing") {
		t.Errorf("negative sentence survived: %q", got)
	}
	if !strings.Contains(got, "Great leader.") || !strings.Contains(got, "Team player!") {
		t.Errorf("positive sentences dropped: %q", got)
	}
}

func TestCandidateReference_Wraps(t *testing.T) {
	if got := candidateReference(25); got != "Candidate Z" {
		t.Errorf("candidateReference(25) = %q", got)
	}
	if got := candidateReference(26); got != "Candidate AA" {
		t.Errorf("candidateReference(26) = %q", got)
	}
}
