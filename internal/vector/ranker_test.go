package vector

import (
	"context"
	"errors"
	"testing"

	"crewmatch/pkg/models"
)

type fixedEmbedder struct {
	vec []float32
	err error
}

func (f *fixedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func rankerCandidates() []*models.Candidate {
	return []*models.Candidate{
		{ID: "far", Embedding: []float32{0, 1, 0}},
		{ID: "close", Embedding: []float32{1, 0.1, 0}},
		{ID: "novec"},
		{ID: "exact", Embedding: []float32{1, 0, 0}},
	}
}

func TestRank_OrdersBySimilarity(t *testing.T) {
	job := &models.JobSpec{ID: "j1", Embedding: []float32{1, 0, 0}}
	r := NewRanker(nil)

	ordered, ranks, degraded := r.Rank(context.Background(), job, rankerCandidates())
	if degraded {
		t.Fatal("rank with precomputed embedding must not degrade")
	}
	if len(ordered) != 4 {
		t.Fatalf("reorder-only violated: %d candidates out of 4", len(ordered))
	}
	if ordered[0].ID != "exact" || ordered[1].ID != "close" {
		t.Errorf("order = [%s %s ...], want [exact close ...]", ordered[0].ID, ordered[1].ID)
	}
	if ranks["exact"] != 1 || ranks["close"] != 2 {
		t.Errorf("ranks = %v", ranks)
	}

	// "far" is orthogonal to the query (below threshold) and "novec" has no
	// embedding: both keep their incoming relative order at the tail.
	if ordered[2].ID != "far" || ordered[3].ID != "novec" {
		t.Errorf("tail = [%s %s], want incoming order [far novec]", ordered[2].ID, ordered[3].ID)
	}
	if _, ok := ranks["novec"]; ok {
		t.Error("candidate without embedding must not receive a semantic rank")
	}
}

func TestRank_EmbedderFailureDegrades(t *testing.T) {
	job := &models.JobSpec{ID: "j1"} // no precomputed embedding
	r := NewRanker(&fixedEmbedder{err: errors.New("backend down")})

	in := rankerCandidates()
	ordered, ranks, degraded := r.Rank(context.Background(), job, in)
	if !degraded {
		t.Error("embedder failure must mark the stage degraded")
	}
	if ranks != nil {
		t.Errorf("ranks = %v, want nil when degraded", ranks)
	}
	for i := range in {
		if ordered[i].ID != in[i].ID {
			t.Fatalf("degraded rank must preserve incoming order, got %v", ordered)
		}
	}
}

func TestRank_EmbedsJobWhenNoVector(t *testing.T) {
	job := &models.JobSpec{ID: "j1", Title: "Deckhand"}
	r := NewRanker(&fixedEmbedder{vec: []float32{1, 0, 0}})

	ordered, _, degraded := r.Rank(context.Background(), job, rankerCandidates())
	if degraded {
		t.Fatal("embedder success must not degrade")
	}
	if ordered[0].ID != "exact" {
		t.Errorf("ordered[0] = %s, want exact", ordered[0].ID)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tc.want)
			}
		})
	}
}
