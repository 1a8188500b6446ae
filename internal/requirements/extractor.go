package requirements

import (
	"context"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

// ExtractionProvider is the LLM capability the extractor depends on.
type ExtractionProvider interface {
	ExtractRequirements(ctx context.Context, job *models.JobSpec) (*models.Requirements, error)
}

// Extractor turns a job's free-text brief into structured requirements. It is
// an optional pipeline stage: a failed or unavailable provider never fails
// the run, the builder falls back to the job's structured fields instead.
type Extractor struct {
	provider ExtractionProvider
	config   *config.Config
	logger   logging.Logger
}

// NewExtractor creates an extractor backed by the given LLM provider. A nil
// provider is valid and means extraction always degrades.
func NewExtractor(provider ExtractionProvider, cfg *config.Config) *Extractor {
	return &Extractor{
		provider: provider,
		config:   cfg,
		logger:   logging.GetGlobalLogger(),
	}
}

// Extract parses the job brief. Returns nil when the stage degraded: no
// provider, no brief to parse, or a provider failure.
func (e *Extractor) Extract(ctx context.Context, job *models.JobSpec) *models.Requirements {
	if job.Brief == "" {
		return nil
	}
	if e.provider == nil {
		e.logger.Debug("Requirement extraction skipped, no LLM provider configured", map[string]interface{}{
			"job_id": job.ID,
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.LLM.Timeout)
	defer cancel()

	extracted, err := e.provider.ExtractRequirements(ctx, job)
	if err != nil {
		e.logger.Warn("Requirement extraction failed, falling back to structured fields", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return nil
	}
	return extracted
}
