package scoring

import (
	"strings"
	"testing"
	"time"

	"crewmatch/internal/config"
	"crewmatch/pkg/models"
)

func scoringConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.AvailabilityGrace = 14 * 24 * time.Hour
	return cfg
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestScorer() *Scorer {
	return NewScorerAt(scoringConfig(), fixedNow)
}

func baseCandidate() *models.Candidate {
	return &models.Candidate{
		ID:                 "c1",
		PrimaryPosition:    "First Officer",
		YearsExperience:    8,
		HighestLicense:     "CHIEF_MATE_3000",
		Certifications:     []models.Certification{{Code: "STCW"}, {Code: "ENG1"}},
		Visas:              []string{"B1_B2"},
		Nationality:        "British",
		AvailabilityStatus: models.AvailabilityAvailable,
		VerificationTier:   models.VerificationFull,
		ReferenceCount:     3,
		Preferences: models.CandidatePreferences{
			Regions:        []string{"Caribbean"},
			ContractTypes:  []string{"rotational"},
			MaxVesselSizeM: 75,
		},
	}
}

func baseRequirements() *models.Requirements {
	return &models.Requirements{
		PositionCode:    "officer",
		MinYears:        5,
		MinVesselSizeM:  70,
		RequiredCerts:   []string{"STCW", "ENG1"},
		RequiredVisas:   []string{"B1_B2"},
		RequiredLicense: "OOW_3000",
	}
}

func baseJob() *models.JobSpec {
	return &models.JobSpec{
		ID:           "j1",
		Title:        "Chief Officer",
		Region:       "Caribbean",
		ContractType: "rotational",
		VesselSizeM:  70,
	}
}

func TestScore_MaximaSumToExactly100(t *testing.T) {
	s := newTestScorer()

	result := s.Score(baseJob(), baseRequirements(), baseCandidate())
	if got := result.Breakdown.MaximumTotal(); got != 100 {
		t.Errorf("maxima sum = %v, want exactly 100", got)
	}
	if result.Breakdown.Total() > result.Breakdown.MaximumTotal() {
		t.Errorf("achieved %v exceeds maximum %v", result.Breakdown.Total(), result.Breakdown.MaximumTotal())
	}
	for _, cat := range result.Breakdown.Categories {
		if cat.Achieved < 0 || cat.Achieved > cat.Maximum {
			t.Errorf("category %s achieved %v out of %v", cat.Name, cat.Achieved, cat.Maximum)
		}
	}
}

func TestScore_StrongCandidateNearDeterministicCeiling(t *testing.T) {
	s := newTestScorer()

	result := s.Score(baseJob(), baseRequirements(), baseCandidate())
	// Everything but the reserved AI slot should be at or near maximum.
	if result.Score < 85 || result.Score > 90 {
		t.Errorf("score = %v, want 85-90 for an ideal candidate", result.Score)
	}
	if ai := result.Breakdown.Category(models.CategoryAIAssessment); ai == nil || ai.Achieved != 0 {
		t.Errorf("AI slot must start at 0, got %+v", ai)
	}
}

func TestScoreExperience_YearsCurve(t *testing.T) {
	s := newTestScorer()
	req := &models.Requirements{MinYears: 5}

	cases := []struct {
		years float64
		want  float64 // years component only
	}{
		{8, yearsPoints},      // at minimum + margin
		{12, yearsPoints},     // beyond is capped
		{4, yearsPoints / 2},  // halfway up the curve
		{0, 0},
	}

	for _, tc := range cases {
		c := &models.Candidate{YearsExperience: tc.years}
		cat := s.scoreExperience(req, c)
		got := cat.Achieved - vesselPoints // no vessel requirement: full vessel credit
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("years=%v: years component = %v, want %v", tc.years, got, tc.want)
		}
	}
}

func TestScoreExperience_VesselScaleTiers(t *testing.T) {
	s := newTestScorer()
	req := &models.Requirements{MinVesselSizeM: 70}

	cases := []struct {
		name  string
		scale float64
		want  float64
	}{
		{"within 10 percent", 65, vesselPoints},
		{"above requirement", 90, vesselPoints},
		{"one band below", 50, vesselPoints / 2}, // the 71% scenario
		{"well below", 30, vesselPoints / 5},
		{"no data is neutral", 0, vesselPoints / 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &models.Candidate{Preferences: models.CandidatePreferences{MaxVesselSizeM: tc.scale}}
			cat := models.CategoryScore{}
			got := s.scoreVesselScale(req, c, &cat)
			if got != tc.want {
				t.Errorf("scale=%v: vessel component = %v, want %v", tc.scale, got, tc.want)
			}
		})
	}
}

func TestScoreExperience_PartialVesselGapHasRationale(t *testing.T) {
	s := newTestScorer()
	req := &models.Requirements{MinVesselSizeM: 70}
	c := &models.Candidate{YearsExperience: 10, Preferences: models.CandidatePreferences{MaxVesselSizeM: 50}}

	cat := s.scoreExperience(req, c)
	found := false
	for _, r := range cat.Rationale {
		if strings.Contains(r, "below the 70m requirement") {
			found = true
		}
	}
	if !found {
		t.Errorf("partial vessel credit must note the gap, rationale = %v", cat.Rationale)
	}
}

func TestScoreSkills_SynonymMatching(t *testing.T) {
	s := newTestScorer()
	req := &models.Requirements{RequiredSkills: []string{"watersports", "silver service"}}
	c := &models.Candidate{
		PrimaryPosition: "Deckhand",
		Summary:         "Keen jet ski and wakeboard instructor with fine dining background.",
	}

	cat := s.scoreSkills(req, c)
	if cat.Achieved != maxSkills {
		t.Errorf("skills = %v, want full %v via synonyms", cat.Achieved, maxSkills)
	}
}

func TestScoreSkills_MissingSkillIsPartial(t *testing.T) {
	s := newTestScorer()
	req := &models.Requirements{RequiredSkills: []string{"diving", "floristry"}}
	c := &models.Candidate{Summary: "PADI divemaster."}

	cat := s.scoreSkills(req, c)
	if cat.Achieved != maxSkills/2 {
		t.Errorf("skills = %v, want half credit", cat.Achieved)
	}
	found := false
	for _, r := range cat.Rationale {
		if strings.Contains(r, "no evidence of floristry") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing skill must be in rationale: %v", cat.Rationale)
	}
}

func TestScoreAvailability_GraceWindow(t *testing.T) {
	s := newTestScorer()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	job := &models.JobSpec{StartDate: &start}

	within := start.Add(10 * 24 * time.Hour)
	past := start.Add(30 * 24 * time.Hour)

	c := &models.Candidate{AvailabilityStatus: models.AvailabilityFromDate, AvailableFrom: &within}
	if cat := s.scoreAvailability(job, c); cat.Achieved != 8 {
		t.Errorf("within grace = %v, want 8", cat.Achieved)
	}

	c.AvailableFrom = &past
	if cat := s.scoreAvailability(job, c); cat.Achieved != 2 {
		t.Errorf("past grace = %v, want 2", cat.Achieved)
	}
}

func TestScorePreferences_NeutralOnMissingData(t *testing.T) {
	s := newTestScorer()
	job := &models.JobSpec{} // no region, contract or salary
	c := &models.Candidate{}

	cat := s.scorePreferences(job, c)
	if cat.Achieved != maxPreferences/2 {
		t.Errorf("preferences = %v, want neutral half credit %v", cat.Achieved, maxPreferences/2)
	}
}

func TestScoreVerification_ReferenceBonusCapped(t *testing.T) {
	s := newTestScorer()

	c := &models.Candidate{VerificationTier: models.VerificationFull, ReferenceCount: 5}
	if cat := s.scoreVerification(c); cat.Achieved != maxVerification {
		t.Errorf("verification = %v, want capped at %v", cat.Achieved, maxVerification)
	}

	c = &models.Candidate{VerificationTier: models.VerificationIdentity, ReferenceCount: 2}
	if cat := s.scoreVerification(c); cat.Achieved != 3 {
		t.Errorf("verification = %v, want tier 2 plus reference bonus", cat.Achieved)
	}
}

func TestScoreAll_SortedAndDeterministic(t *testing.T) {
	s := newTestScorer()
	job := baseJob()
	req := baseRequirements()

	strong := baseCandidate()
	weak := baseCandidate()
	weak.ID = "c0"
	weak.YearsExperience = 1
	weak.Certifications = nil
	weak.VerificationTier = models.VerificationBasic
	weak.ReferenceCount = 0

	first := s.ScoreAll(job, req, []*models.Candidate{weak, strong})
	if first[0].Candidate.ID != "c1" || first[1].Candidate.ID != "c0" {
		t.Errorf("order = [%s %s], want strong candidate first", first[0].Candidate.ID, first[1].Candidate.ID)
	}

	second := s.ScoreAll(job, req, []*models.Candidate{weak, strong})
	for i := range first {
		if first[i].Candidate.ID != second[i].Candidate.ID || first[i].Score != second[i].Score {
			t.Errorf("re-run diverged at %d: %s/%v vs %s/%v", i,
				first[i].Candidate.ID, first[i].Score, second[i].Candidate.ID, second[i].Score)
		}
	}
}
