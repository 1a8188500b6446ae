package vector

import (
	"context"
	"math"
	"sort"

	"crewmatch/pkg/models"
)

// similarityThreshold is the internal cutoff below which a candidate is left
// out of the similarity result and keeps its incoming position instead.
const similarityThreshold = 0.3

// SimilarityService ranks stored vectors against a query embedding. IDs not
// in the result (no vector, or below the service's internal threshold) are
// simply absent, never an error.
type SimilarityService interface {
	RankSimilar(ctx context.Context, embedding []float32, restrictTo []string) ([]string, error)
}

// CosineIndex is an in-process SimilarityService over candidate embeddings.
type CosineIndex struct {
	vectors map[string][]float32
}

// NewCosineIndex builds an index from candidates that carry a precomputed
// embedding. Candidates without one are skipped.
func NewCosineIndex(candidates []*models.Candidate) *CosineIndex {
	vectors := make(map[string][]float32, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding) > 0 {
			vectors[c.ID] = c.Embedding
		}
	}
	return &CosineIndex{vectors: vectors}
}

// RankSimilar returns the IDs from restrictTo (or the whole index when
// restrictTo is nil) ordered by cosine similarity descending, dropping
// entries below the threshold.
func (idx *CosineIndex) RankSimilar(ctx context.Context, embedding []float32, restrictTo []string) ([]string, error) {
	ids := restrictTo
	if ids == nil {
		ids = make([]string, 0, len(idx.vectors))
		for id := range idx.vectors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(ids))
	for _, id := range ids {
		vec, ok := idx.vectors[id]
		if !ok {
			continue
		}
		score := cosineSimilarity(embedding, vec)
		if score < similarityThreshold {
			continue
		}
		ranked = append(ranked, scored{id: id, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.id
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
