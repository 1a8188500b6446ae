package llm

import (
	"context"

	"crewmatch/pkg/models"
)

// Provider defines the interface for LLM providers used by the matching
// pipeline. Both operations are optional pipeline stages: callers must treat
// any error as a degradation signal, never as a request failure.
type Provider interface {
	// ExtractRequirements parses the job's free-text brief into a structured
	// requirement object.
	ExtractRequirements(ctx context.Context, job *models.JobSpec) (*models.Requirements, error)

	// AssessCandidate judges one candidate against the full job context,
	// including confidential notes, and returns a fit assessment.
	AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
