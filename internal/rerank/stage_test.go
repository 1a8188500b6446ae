package rerank

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"crewmatch/internal/config"
	"crewmatch/pkg/models"
)

type stubReranker struct {
	results []Result
	err     error
}

func (s *stubReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	return s.results, s.err
}

func stageConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.RerankInputSize = 50
	cfg.Matching.RerankOutputSize = 3
	return cfg
}

func scoredResults(n int) []*models.MatchResult {
	results := make([]*models.MatchResult, n)
	for i := 0; i < n; i++ {
		results[i] = &models.MatchResult{
			Candidate: &models.Candidate{ID: fmt.Sprintf("c%d", i), PrimaryPosition: "Deckhand"},
			Score:     float64(100 - i),
		}
	}
	return results
}

func TestNarrow_AppliesRerankOrder(t *testing.T) {
	reranker := &stubReranker{results: []Result{
		{Index: 4, Score: 0.9},
		{Index: 1, Score: 0.7},
		{Index: 0, Score: 0.5},
	}}
	stage := NewStage(reranker, stageConfig())

	narrowed, degraded := stage.Narrow(context.Background(), &models.JobSpec{ID: "j1"}, nil, scoredResults(10))
	if degraded {
		t.Fatal("successful rerank must not degrade")
	}
	if len(narrowed) != 3 {
		t.Fatalf("narrowed = %d results, want 3", len(narrowed))
	}
	want := []string{"c4", "c1", "c0"}
	for i, id := range want {
		if narrowed[i].Candidate.ID != id {
			t.Errorf("narrowed[%d] = %s, want %s", i, narrowed[i].Candidate.ID, id)
		}
	}
	if narrowed[0].RerankScore != 0.9 {
		t.Errorf("RerankScore = %v, want 0.9", narrowed[0].RerankScore)
	}
}

func TestNarrow_BackendFailureKeepsScorerOrder(t *testing.T) {
	stage := NewStage(&stubReranker{err: errors.New("backend down")}, stageConfig())

	narrowed, degraded := stage.Narrow(context.Background(), &models.JobSpec{ID: "j1"}, nil, scoredResults(10))
	if !degraded {
		t.Error("backend failure must mark the stage degraded")
	}
	if len(narrowed) != 3 {
		t.Fatalf("narrowed = %d results, want output size 3", len(narrowed))
	}
	for i, want := range []string{"c0", "c1", "c2"} {
		if narrowed[i].Candidate.ID != want {
			t.Errorf("narrowed[%d] = %s, want scorer order %s", i, narrowed[i].Candidate.ID, want)
		}
	}
}

func TestNarrow_NilRerankerDegrades(t *testing.T) {
	stage := NewStage(nil, stageConfig())

	narrowed, degraded := stage.Narrow(context.Background(), &models.JobSpec{ID: "j1"}, nil, scoredResults(5))
	if !degraded {
		t.Error("missing reranker must mark the stage degraded")
	}
	if len(narrowed) != 3 {
		t.Errorf("narrowed = %d results, want 3", len(narrowed))
	}
}

func TestNarrow_BoundsInputSlice(t *testing.T) {
	cfg := stageConfig()
	cfg.Matching.RerankInputSize = 4

	var seenDocs int
	reranker := &stubRerankerFunc{fn: func(documents []string) ([]Result, error) {
		seenDocs = len(documents)
		return []Result{{Index: 0, Score: 1}}, nil
	}}
	stage := NewStage(reranker, cfg)

	stage.Narrow(context.Background(), &models.JobSpec{ID: "j1"}, nil, scoredResults(10))
	if seenDocs != 4 {
		t.Errorf("reranker saw %d documents, want input bound 4", seenDocs)
	}
}

type stubRerankerFunc struct {
	fn func(documents []string) ([]Result, error)
}

func (s *stubRerankerFunc) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	return s.fn(documents)
}
