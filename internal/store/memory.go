package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// MemoryStore is an in-memory Store used for tests and local development.
// It evaluates the same predicate set as the Postgres implementation.
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[string]*models.JobSpec
	candidates map[string]*models.Candidate
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       make(map[string]*models.JobSpec),
		candidates: make(map[string]*models.Candidate),
	}
}

// PutJob adds or replaces a job.
func (s *MemoryStore) PutJob(job *models.JobSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// PutCandidate adds or replaces a candidate.
func (s *MemoryStore) PutCandidate(candidate *models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[candidate.ID] = candidate
}

// GetJob fetches one job by ID.
func (s *MemoryStore) GetJob(ctx context.Context, id string) (*models.JobSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return job, nil
}

// GetCandidate fetches one candidate by ID.
func (s *MemoryStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return candidate, nil
}

// QueryCandidates evaluates the filter predicates over all candidates.
// Results are ordered by years of experience descending for parity with the
// Postgres implementation, then truncated to the limit.
func (s *MemoryStore) QueryCandidates(ctx context.Context, filter Filter) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	matched := make([]*models.Candidate, 0)
	for _, c := range s.candidates {
		if !matchesFilter(c, filter, now) {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].YearsExperience != matched[j].YearsExperience {
			return matched[i].YearsExperience > matched[j].YearsExperience
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func matchesFilter(c *models.Candidate, filter Filter, now time.Time) bool {
	if len(filter.Categories) > 0 && !utils.Contains(filter.Categories, c.Category) {
		return false
	}
	if len(filter.AvailabilityStatuses) > 0 && !utils.Contains(filter.AvailabilityStatuses, c.AvailabilityStatus) {
		return false
	}
	if filter.MinYears > 0 && c.YearsExperience < filter.MinYears {
		return false
	}
	for _, code := range filter.CertCodes {
		if !c.HasValidCert(code, now) {
			return false
		}
	}
	if filter.NonSmoker && c.Smoker {
		return false
	}
	if filter.NoVisibleTattoos && c.VisibleTattoos {
		return false
	}
	return true
}

// ListOpenJobs returns every job with OPEN status.
func (s *MemoryStore) ListOpenJobs(ctx context.Context) ([]*models.JobSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*models.JobSpec, 0)
	for _, job := range s.jobs {
		if job.Status == "OPEN" {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() {}
