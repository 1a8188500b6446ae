package rerank

import (
	"context"
	"fmt"
	"strings"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

// Stage narrows the scored population with a cross-attention reranker. It
// takes the top input slice of scored results, obtains a joint relevance
// score per candidate, and keeps the top output slice by that score. On any
// backend failure it degrades to the same narrowing ordered by the
// deterministic score, so the pipeline stays a total function.
type Stage struct {
	reranker Reranker
	config   *config.Config
	logger   logging.Logger
}

// NewStage creates a rerank stage. A nil reranker is valid and means the
// stage always degrades.
func NewStage(reranker Reranker, cfg *config.Config) *Stage {
	return &Stage{
		reranker: reranker,
		config:   cfg,
		logger:   logging.GetGlobalLogger(),
	}
}

// Narrow reranks the top slice of results. Input must already be sorted by
// score descending. The boolean reports degradation.
func (s *Stage) Narrow(ctx context.Context, job *models.JobSpec, req *models.Requirements, results []*models.MatchResult) ([]*models.MatchResult, bool) {
	input := results
	if len(input) > s.config.Matching.RerankInputSize {
		input = input[:s.config.Matching.RerankInputSize]
	}
	if len(input) == 0 {
		return input, false
	}

	outputSize := s.config.Matching.RerankOutputSize

	if s.reranker == nil {
		return truncate(input, outputSize), true
	}

	documents := make([]string, len(input))
	for i, r := range input {
		documents[i] = candidateDocument(r.Candidate)
	}

	ranked, err := s.reranker.Rerank(ctx, queryDocument(job, req), documents, outputSize)
	if err != nil {
		s.logger.Warn("Reranking degraded, keeping scorer order", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return truncate(input, outputSize), true
	}

	narrowed := make([]*models.MatchResult, 0, len(ranked))
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(input) {
			continue
		}
		result := input[r.Index]
		result.RerankScore = r.Score
		narrowed = append(narrowed, result)
	}
	if len(narrowed) == 0 {
		s.logger.Warn("Reranking returned no usable results, keeping scorer order", map[string]interface{}{
			"job_id": job.ID,
		})
		return truncate(input, outputSize), true
	}

	return truncate(narrowed, outputSize), false
}

func truncate(results []*models.MatchResult, n int) []*models.MatchResult {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}

// queryDocument builds the single query string for the job side. It stays
// clear of confidential notes.
func queryDocument(job *models.JobSpec, req *models.Requirements) string {
	var b strings.Builder
	b.WriteString(job.Title)
	if job.VesselSizeM > 0 {
		fmt.Fprintf(&b, " on a %.0fm %s yacht", job.VesselSizeM, job.VesselType)
	}
	if job.Region != "" {
		b.WriteString(" in " + job.Region)
	}
	b.WriteString(".")
	if req != nil {
		if req.MinYears > 0 {
			fmt.Fprintf(&b, " Requires %.0f+ years of experience.", req.MinYears)
		}
		if len(req.RequiredCerts) > 0 {
			fmt.Fprintf(&b, " Certificates: %s.", strings.Join(req.RequiredCerts, ", "))
		}
		if len(req.RequiredSkills) > 0 {
			fmt.Fprintf(&b, " Skills: %s.", strings.Join(req.RequiredSkills, ", "))
		}
		if len(req.Priorities) > 0 {
			fmt.Fprintf(&b, " Priorities: %s.", strings.Join(req.Priorities, "; "))
		}
	}
	if job.Brief != "" {
		b.WriteString(" " + job.Brief)
	}
	return b.String()
}

// candidateDocument builds one document per candidate for the reranker.
func candidateDocument(c *models.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s with %.1f years of experience.", c.PrimaryPosition, c.YearsExperience)
	if c.HighestLicense != "" {
		fmt.Fprintf(&b, " Holds %s.", c.HighestLicense)
	}
	if len(c.Certifications) > 0 {
		codes := make([]string, len(c.Certifications))
		for i, cert := range c.Certifications {
			codes[i] = cert.Code
		}
		fmt.Fprintf(&b, " Certificates: %s.", strings.Join(codes, ", "))
	}
	if len(c.Languages) > 0 {
		fmt.Fprintf(&b, " Speaks %s.", strings.Join(c.Languages, ", "))
	}
	if c.Summary != "" {
		b.WriteString(" " + c.Summary)
	}
	return b.String()
}
