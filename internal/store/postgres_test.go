package store

import (
	"strings"
	"testing"

	"crewmatch/pkg/models"
)

func TestJobDocumentRoundTrip(t *testing.T) {
	job := &models.JobSpec{
		ID:                "j1",
		Title:             "Chief Officer",
		Category:          "officer",
		Brief:             "Busy charter program.",
		ConfidentialNotes: "owner is difficult",
		Embedding:         []float32{0.1, 0.2, 0.3},
	}

	raw, err := encodeJob(job)
	if err != nil {
		t.Fatalf("encodeJob: %v", err)
	}
	got, err := decodeJob(raw)
	if err != nil {
		t.Fatalf("decodeJob: %v", err)
	}

	if got.ConfidentialNotes != job.ConfidentialNotes {
		t.Errorf("confidential notes lost in store round-trip: %q -> %q", job.ConfidentialNotes, got.ConfidentialNotes)
	}
	if len(got.Embedding) != len(job.Embedding) {
		t.Errorf("embedding lost in store round-trip: %v -> %v", job.Embedding, got.Embedding)
	}
	if got.ID != job.ID || got.Brief != job.Brief {
		t.Errorf("wire fields corrupted: got %+v", got)
	}
}

func TestCandidateDocumentRoundTrip(t *testing.T) {
	candidate := &models.Candidate{
		ID:          "c1",
		FirstName:   "Ana",
		Category:    "deckhand",
		Nationality: "ZA",
		Embedding:   []float32{0.4, 0.5},
	}

	raw, err := encodeCandidate(candidate)
	if err != nil {
		t.Fatalf("encodeCandidate: %v", err)
	}
	got, err := decodeCandidate(raw)
	if err != nil {
		t.Fatalf("decodeCandidate: %v", err)
	}

	if len(got.Embedding) != len(candidate.Embedding) {
		t.Errorf("embedding lost in store round-trip: %v -> %v", candidate.Embedding, got.Embedding)
	}
	if got.ID != candidate.ID || got.Nationality != candidate.Nationality {
		t.Errorf("wire fields corrupted: got %+v", got)
	}
}

func TestBuildCandidateQuery_NullCategory(t *testing.T) {
	// An empty string in the category filter means "uncategorized", which a
	// row may store as NULL.
	query, _, _ := buildCandidateQuery(Filter{Categories: []string{"deckhand", ""}, Limit: 10})
	if !strings.Contains(query, "category IS NULL") {
		t.Errorf("query must match NULL-category rows: %s", query)
	}

	query, _, _ = buildCandidateQuery(Filter{Categories: []string{"deckhand"}, Limit: 10})
	if strings.Contains(query, "IS NULL") {
		t.Errorf("NULL clause must only appear for uncategorized filters: %s", query)
	}
}

func TestBuildCandidateQuery_Predicates(t *testing.T) {
	query, args, predicates := buildCandidateQuery(Filter{
		Categories:           []string{"deckhand"},
		AvailabilityStatuses: []string{models.AvailabilityAvailable},
		MinYears:             3,
		CertCodes:            []string{"STCW"},
		NonSmoker:            true,
		Limit:                100,
	})

	if predicates != 5 {
		t.Errorf("predicates = %d, want 5", predicates)
	}
	// smoker and limit do not consume placeholders the same way: smoker is a
	// literal, the limit is the last argument.
	if len(args) != 5 {
		t.Errorf("args = %d, want 5", len(args))
	}
	if !strings.Contains(query, "ORDER BY years_experience DESC") {
		t.Errorf("ordering clause missing: %s", query)
	}
	if !strings.HasSuffix(query, "LIMIT $5") {
		t.Errorf("limit clause missing: %s", query)
	}
}
