package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/judge"
	"crewmatch/internal/rerank"
	"crewmatch/internal/requirements"
	"crewmatch/internal/scoring"
	"crewmatch/internal/store"
	"crewmatch/internal/vector"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

func engineConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Timeout = time.Second
	cfg.Matching.RetrievalCap = 1000
	cfg.Matching.RerankInputSize = 50
	cfg.Matching.RerankOutputSize = 20
	cfg.Matching.JudgeSliceSize = 15
	cfg.Matching.JudgeBatchSize = 5
	cfg.Matching.DefaultLimit = 10
	cfg.Matching.AvailabilityGrace = 14 * 24 * time.Hour
	return cfg
}

// deterministicReranker keeps the incoming order and assigns descending
// relevance scores.
type deterministicReranker struct{}

func (deterministicReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]rerank.Result, error) {
	n := len(documents)
	if topN > 0 && topN < n {
		n = topN
	}
	results := make([]rerank.Result, n)
	for i := 0; i < n; i++ {
		results[i] = rerank.Result{Index: i, Score: 1 - float64(i)*0.01}
	}
	return results, nil
}

// deterministicJudge returns a fixed verdict per candidate ID.
type deterministicJudge struct{}

func (deterministicJudge) AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error) {
	return &models.Assessment{
		FitDelta:  float64(len(candidate.ID)%10 + 1),
		Summary:   "consistent verdict for " + candidate.ID,
		Strengths: []string{"steady track record"},
	}, nil
}

func newTestEngine(st store.Store, reranker rerank.Reranker, judgeProvider judge.AssessmentProvider) *Engine {
	cfg := engineConfig()
	return NewEngine(
		st,
		requirements.NewExtractor(nil, cfg),
		vector.NewRanker(nil),
		scoring.NewScorerAt(cfg, func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }),
		rerank.NewStage(reranker, cfg),
		judge.NewJudge(judgeProvider, cfg),
		cfg,
	)
}

func scenarioStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.PutJob(&models.JobSpec{
		ID:       "j1",
		Title:    "Deckhand",
		Category: "deckhand",
		Status:   "OPEN",
		Requirements: models.JobRequirements{
			Certifications:        []string{"STCW", "ENG1"},
			ExcludedNationalities: []string{"South African"},
		},
	})

	bothCerts := []models.Certification{{Code: "STCW"}, {Code: "ENG1"}}
	st.PutCandidate(&models.Candidate{
		ID: "a", Category: "deckhand", Nationality: "South African",
		PrimaryPosition: "Deckhand", YearsExperience: 4,
		AvailabilityStatus: models.AvailabilityAvailable,
		Certifications:     bothCerts,
	})
	st.PutCandidate(&models.Candidate{
		ID: "b", Category: "deckhand", Nationality: "Filipino",
		PrimaryPosition: "Deckhand", YearsExperience: 4,
		AvailabilityStatus: models.AvailabilityAvailable,
		Certifications:     []models.Certification{{Code: "STCW"}},
	})
	st.PutCandidate(&models.Candidate{
		ID: "c", Category: "deckhand", Nationality: "Filipino",
		PrimaryPosition: "Deckhand", YearsExperience: 4,
		AvailabilityStatus: models.AvailabilityAvailable,
		Certifications:     bothCerts,
	})
	return st
}

func TestMatch_HardFilterScenario(t *testing.T) {
	e := newTestEngine(scenarioStore(), deterministicReranker{}, deterministicJudge{})

	resp, err := e.Match(context.Background(), &models.MatchRequest{JobID: "j1"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	views := resp.Results.([]models.OperatorMatchView)
	// Candidate b falls at retrieval (missing ENG1), candidate a at the
	// nationality filter. Only c reaches scoring.
	if len(views) != 1 || views[0].CandidateID != "c" {
		t.Fatalf("results = %+v, want only candidate c", views)
	}
	if views[0].Score <= 0 || views[0].Score > 100 {
		t.Errorf("score = %v, want (0,100]", views[0].Score)
	}
}

func TestMatch_UnknownJobFailsFast(t *testing.T) {
	e := newTestEngine(scenarioStore(), deterministicReranker{}, deterministicJudge{})

	_, err := e.Match(context.Background(), &models.MatchRequest{JobID: "missing"})
	var custom *utils.CustomError
	if !errors.As(err, &custom) || custom.Code != 404 {
		t.Fatalf("err = %v, want 404 CustomError", err)
	}
}

func TestMatch_AllOptionalStagesDegradedStillRanks(t *testing.T) {
	st := scenarioStore()
	// A brief forces the extraction stage to matter; no extractor provider
	// is configured, so it degrades.
	job, _ := st.GetJob(context.Background(), "j1")
	job.Brief = "Busy charter program, toys-heavy."

	e := newTestEngine(st, nil, nil)

	resp, err := e.Match(context.Background(), &models.MatchRequest{JobID: "j1"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	views := resp.Results.([]models.OperatorMatchView)
	if len(views) == 0 {
		t.Fatal("pipeline must still return a ranked list when every optional stage fails")
	}
	for _, stage := range []string{StageExtraction, StageSemantic, StageRerank, StageJudge} {
		if !utils.Contains(resp.DegradedStages, stage) {
			t.Errorf("degraded stages %v missing %s", resp.DegradedStages, stage)
		}
	}
	for _, v := range views {
		if !v.Degraded {
			t.Errorf("result %s not marked degraded", v.CandidateID)
		}
	}
}

func TestMatch_Idempotent(t *testing.T) {
	e := newTestEngine(scenarioStore(), deterministicReranker{}, deterministicJudge{})
	request := &models.MatchRequest{JobID: "j1", Limit: 10}

	first, err := e.Match(context.Background(), request)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	second, err := e.Match(context.Background(), request)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	a := first.Results.([]models.OperatorMatchView)
	b := second.Results.([]models.OperatorMatchView)
	if len(a) != len(b) {
		t.Fatalf("result counts diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].CandidateID != b[i].CandidateID || a[i].Score != b[i].Score {
			t.Errorf("run diverged at %d: %s/%v vs %s/%v", i, a[i].CandidateID, a[i].Score, b[i].CandidateID, b[i].Score)
		}
	}
}

func TestMatchJobsForCandidate_RanksAndExcludes(t *testing.T) {
	st := scenarioStore()
	st.PutJob(&models.JobSpec{
		ID: "j2", Title: "Deckhand (no exclusions)", Category: "deckhand", Status: "OPEN",
	})

	e := newTestEngine(st, deterministicReranker{}, deterministicJudge{})

	// Candidate a is South African: excluded from j1 but eligible for j2.
	resp, err := e.MatchJobsForCandidate(context.Background(), &models.JobsForCandidateRequest{CandidateID: "a"})
	if err != nil {
		t.Fatalf("MatchJobsForCandidate: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].JobID != "j2" {
		t.Errorf("results = %+v, want only j2", resp.Results)
	}

	// Candidate c is eligible for both.
	resp, err = e.MatchJobsForCandidate(context.Background(), &models.JobsForCandidateRequest{CandidateID: "c"})
	if err != nil {
		t.Fatalf("MatchJobsForCandidate: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("results = %+v, want both jobs", resp.Results)
	}
}
