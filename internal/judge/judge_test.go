package judge

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"crewmatch/internal/config"
	"crewmatch/pkg/models"
)

func judgeConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.JudgeSliceSize = 15
	cfg.Matching.JudgeBatchSize = 5
	cfg.LLM.Timeout = 5 * time.Second
	return cfg
}

type scriptedProvider struct {
	calls    atomic.Int32
	failFor  map[string]bool
	deltaFor map[string]float64
}

func (p *scriptedProvider) AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error) {
	p.calls.Add(1)
	if p.failFor[candidate.ID] {
		return nil, errors.New("model timeout")
	}
	delta := 7.0
	if d, ok := p.deltaFor[candidate.ID]; ok {
		delta = d
	}
	return &models.Assessment{
		FitDelta:  delta,
		Summary:   "solid fit for the program",
		Strengths: []string{"relevant charter experience"},
	}, nil
}

func judgeResults(n int) []*models.MatchResult {
	results := make([]*models.MatchResult, n)
	for i := 0; i < n; i++ {
		results[i] = &models.MatchResult{
			Candidate: &models.Candidate{ID: fmt.Sprintf("c%d", i)},
			Breakdown: models.ScoreBreakdown{Categories: []models.CategoryScore{
				{Name: models.CategoryAIAssessment, Maximum: 10},
			}},
		}
	}
	return results
}

func aiAchieved(t *testing.T, r *models.MatchResult) float64 {
	t.Helper()
	ai := r.Breakdown.Category(models.CategoryAIAssessment)
	if ai == nil {
		t.Fatalf("result %s has no AI category", r.Candidate.ID)
	}
	return ai.Achieved
}

func TestAssess_AppliesVerdicts(t *testing.T) {
	provider := &scriptedProvider{deltaFor: map[string]float64{"c0": 9}}
	j := NewJudge(provider, judgeConfig())

	results := judgeResults(3)
	if degraded := j.Assess(context.Background(), &models.JobSpec{ID: "j1"}, nil, results); degraded {
		t.Error("healthy provider must not degrade the stage")
	}

	if got := aiAchieved(t, results[0]); got != 9 {
		t.Errorf("c0 delta = %v, want 9", got)
	}
	if results[0].Summary == "" || len(results[0].Strengths) == 0 {
		t.Errorf("verdict text not applied: %+v", results[0])
	}
}

func TestAssess_PartialFailureDegradesOnlyThatItem(t *testing.T) {
	provider := &scriptedProvider{failFor: map[string]bool{"c1": true}}
	j := NewJudge(provider, judgeConfig())

	results := judgeResults(3)
	if degraded := j.Assess(context.Background(), &models.JobSpec{ID: "j1"}, nil, results); degraded {
		t.Error("one failing sibling must not degrade the whole stage")
	}

	if got := aiAchieved(t, results[1]); got != NeutralFitDelta {
		t.Errorf("failed item delta = %v, want neutral %v", got, NeutralFitDelta)
	}
	if !results[1].Degraded {
		t.Error("failed item must be marked degraded")
	}
	if results[1].Summary != unavailableSummary {
		t.Errorf("failed item summary = %q", results[1].Summary)
	}
	if results[0].Degraded || results[2].Degraded {
		t.Error("siblings of a failed item must be unaffected")
	}
}

func TestAssess_NilProviderNeutralDefaults(t *testing.T) {
	j := NewJudge(nil, judgeConfig())

	results := judgeResults(4)
	if degraded := j.Assess(context.Background(), &models.JobSpec{ID: "j1"}, nil, results); !degraded {
		t.Error("missing provider must degrade the stage")
	}
	for _, r := range results {
		if got := aiAchieved(t, r); got != NeutralFitDelta {
			t.Errorf("%s delta = %v, want neutral", r.Candidate.ID, got)
		}
		if !r.Degraded {
			t.Errorf("%s must be marked degraded", r.Candidate.ID)
		}
	}
}

func TestAssess_SliceBound(t *testing.T) {
	cfg := judgeConfig()
	cfg.Matching.JudgeSliceSize = 2

	provider := &scriptedProvider{}
	j := NewJudge(provider, cfg)

	results := judgeResults(5)
	j.Assess(context.Background(), &models.JobSpec{ID: "j1"}, nil, results)

	if calls := provider.calls.Load(); calls != 2 {
		t.Errorf("provider calls = %d, want slice bound 2", calls)
	}
	// Beyond the slice: neutral delta, no provider call.
	for _, r := range results[2:] {
		if got := aiAchieved(t, r); got != NeutralFitDelta {
			t.Errorf("%s delta = %v, want neutral outside slice", r.Candidate.ID, got)
		}
	}
}

func TestAssess_ClampsDelta(t *testing.T) {
	provider := &scriptedProvider{deltaFor: map[string]float64{"c0": 42}}
	j := NewJudge(provider, judgeConfig())

	results := judgeResults(1)
	j.Assess(context.Background(), &models.JobSpec{ID: "j1"}, nil, results)

	if got := aiAchieved(t, results[0]); got != 10 {
		t.Errorf("delta = %v, want clamped to category maximum 10", got)
	}
}
