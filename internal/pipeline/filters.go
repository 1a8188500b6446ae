package pipeline

import (
	"crewmatch/internal/logging"
	"crewmatch/internal/taxonomy"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// Filter is a single in-memory filtering pass over the retrieved candidate
// set. These passes hold the predicates the store cannot express: alias
// normalization, ladder comparison, free-text inference.
type Filter interface {
	Name() string
	Apply(candidates []*models.Candidate) ([]*models.Candidate, Step)
}

// Step describes the result of executing one filtering pass.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// runFilters executes the passes sequentially, logging each step.
func runFilters(filters []Filter, candidates []*models.Candidate, logger logging.Logger) []*models.Candidate {
	for _, f := range filters {
		next, step := f.Apply(candidates)
		logger.Debug("Filter pass completed", map[string]interface{}{
			"filter":  f.Name(),
			"initial": step.Initial,
			"dropped": step.Dropped,
			"left":    step.Left,
		})
		candidates = next
	}
	return candidates
}

func keep(candidates []*models.Candidate, pred func(*models.Candidate) bool) ([]*models.Candidate, Step) {
	kept := make([]*models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if pred(c) {
			kept = append(kept, c)
		}
	}
	return kept, Step{
		Initial: len(candidates),
		Dropped: len(candidates) - len(kept),
		Left:    len(kept),
	}
}

// nationalityFilter drops candidates whose nationality, in any alias form,
// appears in the exclusion set. Hard and order-independent.
type nationalityFilter struct {
	excluded []string
}

func (f *nationalityFilter) Name() string { return "nationality_exclusion" }

func (f *nationalityFilter) Apply(candidates []*models.Candidate) ([]*models.Candidate, Step) {
	if len(f.excluded) == 0 {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}
	}
	return keep(candidates, func(c *models.Candidate) bool {
		nationalities := []string{c.Nationality}
		if c.SecondNationality != "" {
			nationalities = append(nationalities, c.SecondNationality)
		}
		return !taxonomy.NationalityExcluded(nationalities, f.excluded)
	})
}

// licenseFilter drops candidates whose license does not satisfy the
// requirement within its ladder.
type licenseFilter struct {
	required string
}

func (f *licenseFilter) Name() string { return "license_qualification" }

func (f *licenseFilter) Apply(candidates []*models.Candidate) ([]*models.Candidate, Step) {
	if f.required == "" {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}
	}
	return keep(candidates, func(c *models.Candidate) bool {
		return taxonomy.LicenseSatisfies(c.HighestLicense, f.required)
	})
}

// categoryFilter keeps candidates whose category matches the required one
// (or an accepted alternate). Candidates with a missing or different
// category get one inferred from their free-text position title; a matching
// inference retains them, anything else drops.
type categoryFilter struct {
	accepted []string
}

func (f *categoryFilter) Name() string { return "category_inference" }

func (f *categoryFilter) Apply(candidates []*models.Candidate) ([]*models.Candidate, Step) {
	if len(f.accepted) == 0 {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}
	}
	return keep(candidates, func(c *models.Candidate) bool {
		if utils.Contains(f.accepted, c.Category) || utils.Contains(f.accepted, c.SecondaryCategory) {
			return true
		}
		inferred := taxonomy.InferCategory(c.PrimaryPosition)
		return inferred != "" && utils.Contains(f.accepted, inferred)
	})
}

// buildFilters assembles the in-memory passes for a requirement set.
func buildFilters(req *models.Requirements) []Filter {
	accepted := make([]string, 0, 1+len(req.AlternatePositions))
	if req.PositionCode != "" {
		accepted = append(accepted, req.PositionCode)
	}
	for _, alt := range req.AlternatePositions {
		if code, ok := taxonomy.NormalizeCategory(alt); ok {
			accepted = append(accepted, code)
		}
	}

	return []Filter{
		&nationalityFilter{excluded: req.ExcludedNationalities},
		&licenseFilter{required: req.RequiredLicense},
		&categoryFilter{accepted: accepted},
	}
}
