package store

import (
	"context"

	"crewmatch/pkg/models"
)

// Filter carries the predicates the store can evaluate natively. Fuzzy
// predicates (nationality matching, license-level comparison, category
// inference from free text) stay out of the store on purpose: they depend on
// normalization logic the store cannot express and run as in-memory passes
// after retrieval.
type Filter struct {
	// Categories restricts to candidates whose position category is one of
	// these codes. Empty means no category predicate.
	Categories []string

	// AvailabilityStatuses restricts to candidates in one of these statuses.
	AvailabilityStatuses []string

	// MinYears is the minimum years of experience. Zero means no predicate.
	MinYears float64

	// CertCodes lists certification codes the candidate must all hold.
	CertCodes []string

	NonSmoker        bool
	NoVisibleTattoos bool

	// Limit bounds the result set. The store must never return more rows.
	Limit int
}

// Store is the structured query capability the pipeline retrieves jobs and
// candidates from. "No matching rows" is a valid empty result, not an error;
// a missing identity is utils.ErrNotFound.
type Store interface {
	GetJob(ctx context.Context, id string) (*models.JobSpec, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)

	// QueryCandidates returns candidates matching every predicate in the
	// filter, up to filter.Limit rows.
	QueryCandidates(ctx context.Context, filter Filter) ([]*models.Candidate, error)

	// ListOpenJobs returns every job currently open for matching, used by
	// the reverse (jobs-for-candidate) ranking.
	ListOpenJobs(ctx context.Context) ([]*models.JobSpec, error)

	Ping(ctx context.Context) error
	Close()
}
