package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/judge"
	"crewmatch/internal/logging"
	"crewmatch/internal/rerank"
	"crewmatch/internal/requirements"
	"crewmatch/internal/results"
	"crewmatch/internal/scoring"
	"crewmatch/internal/store"
	"crewmatch/internal/taxonomy"
	"crewmatch/internal/vector"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// Stage names reported in degraded_stages.
const (
	StageExtraction = "requirement_extraction"
	StageSemantic   = "semantic_ranking"
	StageRerank     = "reranking"
	StageJudge      = "ai_judge"
)

// Engine orchestrates one matching run: requirement extraction, retrieval,
// hard filters, scoring, semantic ranking, reranking, AI judging and result
// assembly. A run is a pure function of (job, candidate snapshot, time);
// the engine holds no cross-request state.
type Engine struct {
	store       store.Store
	extractor   *requirements.Extractor
	ranker      *vector.Ranker
	scorer      *scoring.Scorer
	rerankStage *rerank.Stage
	judge       *judge.Judge
	assembler   *results.Assembler
	sanitizer   *results.Sanitizer
	config      *config.Config
	logger      logging.Logger
}

// NewEngine wires a matching engine from its stages.
func NewEngine(st store.Store, extractor *requirements.Extractor, ranker *vector.Ranker, scorer *scoring.Scorer, rerankStage *rerank.Stage, j *judge.Judge, cfg *config.Config) *Engine {
	return &Engine{
		store:       st,
		extractor:   extractor,
		ranker:      ranker,
		scorer:      scorer,
		rerankStage: rerankStage,
		judge:       j,
		assembler:   results.NewAssembler(),
		sanitizer:   results.NewSanitizer(),
		config:      cfg,
		logger:      logging.GetGlobalLogger(),
	}
}

// Match runs the full pipeline for one job. Only two failure modes exist:
// an unknown job and a store error. Every optional stage degrades to a
// documented default and is reported in DegradedStages instead of failing
// the request.
func (e *Engine) Match(ctx context.Context, request *models.MatchRequest) (*models.MatchResponse, error) {
	started := time.Now()

	limit := request.Limit
	if limit <= 0 {
		limit = e.config.Matching.DefaultLimit
	}
	viewer := utils.GetStringOrDefault(request.Viewer, models.ViewerOperator)

	job, err := e.store.GetJob(ctx, request.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("job %s not found", request.JobID))
		}
		return nil, utils.NewStoreError(fmt.Sprintf("failed to load job %s: %v", request.JobID, err))
	}

	var degraded []string

	// Stage 1: requirement extraction, optional.
	extracted := e.extractor.Extract(ctx, job)
	if job.Brief != "" && extracted == nil {
		degraded = append(degraded, StageExtraction)
	}

	// Stage 2: deterministic requirement merge.
	req := requirements.Build(job, extracted, request.Overrides)

	// Stage 3: mandatory bounded retrieval. A store failure here fails the
	// whole request; an empty result set does not.
	candidates, err := e.retrieve(ctx, req)
	if err != nil {
		return nil, utils.NewStoreError(fmt.Sprintf("candidate retrieval failed: %v", err))
	}

	// Stages 4-6: in-memory hard filters.
	candidates = runFilters(buildFilters(req), candidates, e.logger)

	// Stage 7: semantic reordering, optional.
	ordered, ranks, semDegraded := e.ranker.Rank(ctx, job, candidates)
	if semDegraded {
		degraded = append(degraded, StageSemantic)
	}

	// Stage 8: deterministic weighted scoring.
	scored := e.scorer.ScoreAll(job, req, ordered)
	applySemanticRanks(scored, ranks)

	// Stage 9: cross-attention reranking, optional.
	narrowed, rerankDegraded := e.rerankStage.Narrow(ctx, job, req, scored)
	if rerankDegraded {
		degraded = append(degraded, StageRerank)
	}

	// Stage 10: AI judge, optional.
	if judgeDegraded := e.judge.Assess(ctx, job, req, narrowed); judgeDegraded {
		degraded = append(degraded, StageJudge)
	}

	// Stage 11: assembly and sanitization.
	final := e.assembler.Assemble(narrowed, limit)
	markDegraded(final, degraded)

	views, err := e.sanitizer.Project(final, viewer)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	e.logger.Info("Matching run completed", map[string]interface{}{
		"job_id":          job.ID,
		"viewer":          viewer,
		"results":         len(final),
		"degraded_stages": degraded,
		"processing_time": time.Since(started),
	})

	return &models.MatchResponse{
		Success:        true,
		JobID:          job.ID,
		Viewer:         viewer,
		Results:        views,
		Total:          len(final),
		DegradedStages: degraded,
		ProcessingTime: time.Since(started),
	}, nil
}

// retrieve runs the single bounded store query with every native predicate
// pushed down. The category predicate includes the empty string so
// candidates without a stored category survive to the in-memory inference
// pass.
func (e *Engine) retrieve(ctx context.Context, req *models.Requirements) ([]*models.Candidate, error) {
	filter := store.Filter{
		MinYears:         req.MinYears,
		CertCodes:        req.RequiredCerts,
		NonSmoker:        req.NonSmoker,
		NoVisibleTattoos: req.NoVisibleTattoos,
		AvailabilityStatuses: []string{
			models.AvailabilityAvailable,
			models.AvailabilityFromDate,
			models.AvailabilityOnRotation,
			models.AvailabilityEmployed,
		},
		Limit: e.config.Matching.RetrievalCap,
	}
	if req.PositionCode != "" {
		filter.Categories = append([]string{req.PositionCode, ""}, normalizedAlternates(req)...)
	}
	return e.store.QueryCandidates(ctx, filter)
}

func normalizedAlternates(req *models.Requirements) []string {
	out := make([]string, 0, len(req.AlternatePositions))
	for _, alt := range req.AlternatePositions {
		if code, ok := taxonomy.NormalizeCategory(alt); ok {
			out = append(out, code)
		}
	}
	return out
}

// applySemanticRanks records each candidate's semantic position and breaks
// score ties in favor of the semantically closer candidate.
func applySemanticRanks(scored []*models.MatchResult, ranks map[string]int) {
	if len(ranks) == 0 {
		return
	}
	for _, r := range scored {
		r.SemanticRank = ranks[r.Candidate.ID]
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return semanticBefore(scored[i], scored[j])
	})
}

func semanticBefore(a, b *models.MatchResult) bool {
	switch {
	case a.SemanticRank == 0:
		return false
	case b.SemanticRank == 0:
		return true
	default:
		return a.SemanticRank < b.SemanticRank
	}
}

func markDegraded(final []*models.MatchResult, degraded []string) {
	if len(degraded) == 0 {
		return
	}
	for _, r := range final {
		r.Degraded = true
	}
}

// MatchJobsForCandidate is the symmetric ranking: every open job scored for
// one candidate. Requirements come from structured fields only; the
// optional external stages stay out of this cheaper path.
func (e *Engine) MatchJobsForCandidate(ctx context.Context, request *models.JobsForCandidateRequest) (*models.JobRankResponse, error) {
	started := time.Now()

	limit := request.Limit
	if limit <= 0 {
		limit = e.config.Matching.DefaultLimit
	}

	candidate, err := e.store.GetCandidate(ctx, request.CandidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("candidate %s not found", request.CandidateID))
		}
		return nil, utils.NewStoreError(fmt.Sprintf("failed to load candidate %s: %v", request.CandidateID, err))
	}

	jobs, err := e.store.ListOpenJobs(ctx)
	if err != nil {
		return nil, utils.NewStoreError(fmt.Sprintf("failed to list open jobs: %v", err))
	}

	ranked := make([]models.RankedJob, 0, len(jobs))
	for _, job := range jobs {
		req := requirements.Build(job, nil, nil)
		if excludedFromJob(candidate, req) {
			continue
		}
		result := e.scorer.Score(job, req, candidate)
		ranked = append(ranked, models.RankedJob{
			JobID:     job.ID,
			Title:     job.Title,
			Score:     result.Score,
			Breakdown: result.Breakdown,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].JobID < ranked[j].JobID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &models.JobRankResponse{
		Success:        true,
		CandidateID:    candidate.ID,
		Results:        ranked,
		Total:          len(ranked),
		ProcessingTime: time.Since(started),
	}, nil
}

// excludedFromJob applies the hard filters in the reverse direction.
func excludedFromJob(c *models.Candidate, req *models.Requirements) bool {
	filters := buildFilters(req)
	in := []*models.Candidate{c}
	for _, f := range filters {
		out, _ := f.Apply(in)
		if len(out) == 0 {
			return true
		}
		in = out
	}
	return false
}
