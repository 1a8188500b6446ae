package vector

import (
	"context"

	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

// Ranker reorders a filtered candidate set by semantic similarity to the
// job. It only reorders: every candidate that goes in comes out, candidates
// absent from the similarity result are appended preserving incoming order.
type Ranker struct {
	embedder Embedder
	logger   logging.Logger
}

// NewRanker creates a semantic ranker. A nil embedder is valid and means the
// stage degrades whenever the job has no precomputed embedding.
func NewRanker(embedder Embedder) *Ranker {
	return &Ranker{
		embedder: embedder,
		logger:   logging.GetGlobalLogger(),
	}
}

// Rank reorders candidates by similarity to the job. The returned map holds
// the 1-based semantic rank for candidates present in the similarity result.
// The boolean reports degradation: on any failure the input order is
// returned unchanged.
func (r *Ranker) Rank(ctx context.Context, job *models.JobSpec, candidates []*models.Candidate) ([]*models.Candidate, map[string]int, bool) {
	if len(candidates) == 0 {
		return candidates, nil, false
	}

	query, err := r.queryEmbedding(ctx, job)
	if err != nil {
		r.logger.Warn("Semantic ranking degraded, keeping incoming order", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return candidates, nil, true
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	index := NewCosineIndex(candidates)
	rankedIDs, err := index.RankSimilar(ctx, query, ids)
	if err != nil {
		r.logger.Warn("Semantic ranking degraded, keeping incoming order", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return candidates, nil, true
	}

	byID := make(map[string]*models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	ranks := make(map[string]int, len(rankedIDs))
	ordered := make([]*models.Candidate, 0, len(candidates))
	for i, id := range rankedIDs {
		ranks[id] = i + 1
		ordered = append(ordered, byID[id])
	}
	// Candidates outside the similarity result keep their incoming order.
	for _, c := range candidates {
		if _, ok := ranks[c.ID]; !ok {
			ordered = append(ordered, c)
		}
	}

	return ordered, ranks, false
}

func (r *Ranker) queryEmbedding(ctx context.Context, job *models.JobSpec) ([]float32, error) {
	if len(job.Embedding) > 0 {
		return job.Embedding, nil
	}
	if r.embedder == nil {
		return nil, errNoEmbedder
	}
	return r.embedder.EmbedText(ctx, jobDocument(job))
}

// jobDocument builds the text embedded for a job without a precomputed
// vector. Confidential notes stay out of embedding input.
func jobDocument(job *models.JobSpec) string {
	doc := job.Title
	if job.VesselType != "" {
		doc += " on a " + job.VesselType + " yacht"
	}
	if job.Region != "" {
		doc += " in " + job.Region
	}
	if job.Brief != "" {
		doc += ". " + job.Brief
	}
	return doc
}
