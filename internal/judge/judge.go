package judge

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

// NeutralFitDelta is the default applied whenever an assessment is missing:
// provider failure, malformed output, or a candidate outside the judged
// slice. Neutral keeps the deterministic ordering undistorted.
const NeutralFitDelta = 5.0

const unavailableSummary = "assessment unavailable"

// AssessmentProvider is the LLM capability the judge depends on.
type AssessmentProvider interface {
	AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error)
}

// Judge runs AI fit assessments over the top slice of scored results.
// Calls fan out in bounded batches and a single item's failure degrades only
// that item, never its siblings.
type Judge struct {
	provider AssessmentProvider
	config   *config.Config
	limiter  *rate.Limiter
	logger   logging.Logger
}

// NewJudge creates a judge. A nil provider is valid and means every
// assessment takes the neutral default.
func NewJudge(provider AssessmentProvider, cfg *config.Config) *Judge {
	batch := cfg.Matching.JudgeBatchSize
	if batch <= 0 {
		batch = 1
	}
	return &Judge{
		provider: provider,
		config:   cfg,
		limiter:  rate.NewLimiter(rate.Limit(batch), batch),
		logger:   logging.GetGlobalLogger(),
	}
}

// Assess writes an assessment into every result: judged candidates get the
// provider's verdict, everything else the neutral default. The fit delta
// lands in the reserved AI category of the breakdown; the assembler
// re-totals afterward. Returns true when the whole stage degraded.
func (j *Judge) Assess(ctx context.Context, job *models.JobSpec, req *models.Requirements, results []*models.MatchResult) bool {
	if len(results) == 0 {
		return false
	}

	sliceSize := j.config.Matching.JudgeSliceSize
	judged := results
	if sliceSize > 0 && len(judged) > sliceSize {
		judged = judged[:sliceSize]
	}

	// Candidates outside the judged slice always take the neutral default.
	for _, r := range results[len(judged):] {
		applyAssessment(r, neutralAssessment("outside the assessed slice"))
	}

	if j.provider == nil {
		for _, r := range judged {
			applyAssessment(r, neutralAssessment(unavailableSummary))
		}
		return true
	}

	batchSize := j.config.Matching.JudgeBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	anyOK := false
	for start := 0; start < len(judged); start += batchSize {
		end := start + batchSize
		if end > len(judged) {
			end = len(judged)
		}

		var wg sync.WaitGroup
		outcomes := make([]bool, end-start)
		for i, result := range judged[start:end] {
			wg.Add(1)
			go func(i int, result *models.MatchResult) {
				defer wg.Done()
				outcomes[i] = j.assessOne(ctx, job, req, result)
			}(i, result)
		}
		wg.Wait()

		for _, ok := range outcomes {
			if ok {
				anyOK = true
			}
		}
	}

	return !anyOK
}

func (j *Judge) assessOne(ctx context.Context, job *models.JobSpec, req *models.Requirements, result *models.MatchResult) bool {
	if err := j.limiter.Wait(ctx); err != nil {
		applyAssessment(result, neutralAssessment(unavailableSummary))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, j.config.LLM.Timeout)
	defer cancel()

	assessment, err := j.provider.AssessCandidate(ctx, job, req, result.Candidate)
	if err != nil {
		j.logger.Warn("Candidate assessment failed, applying neutral default", map[string]interface{}{
			"job_id":       job.ID,
			"candidate_id": result.Candidate.ID,
			"error":        err.Error(),
		})
		applyAssessment(result, neutralAssessment(unavailableSummary))
		return false
	}

	applyAssessment(result, assessment)
	return true
}

func neutralAssessment(summary string) *models.Assessment {
	return &models.Assessment{
		FitDelta: NeutralFitDelta,
		Summary:  summary,
		Degraded: true,
	}
}

func applyAssessment(result *models.MatchResult, assessment *models.Assessment) {
	result.Summary = assessment.Summary
	result.Strengths = append(result.Strengths, assessment.Strengths...)
	result.Concerns = append(result.Concerns, assessment.Concerns...)
	if assessment.Degraded {
		result.Degraded = true
	}

	if ai := result.Breakdown.Category(models.CategoryAIAssessment); ai != nil {
		delta := assessment.FitDelta
		if delta < 0 {
			delta = 0
		}
		if delta > ai.Maximum {
			delta = ai.Maximum
		}
		ai.Achieved = delta
		if assessment.Summary != "" {
			ai.Rationale = append(ai.Rationale, assessment.Summary)
		}
	}
}
