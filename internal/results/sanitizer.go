package results

import (
	"fmt"
	"strings"

	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// Sanitizer projects internal match results into viewer-specific views.
// This boundary is a hard invariant: no internal breakdown, raw concern
// list, or confidential-note-derived text may cross it for non-operator
// viewers.
type Sanitizer struct{}

// NewSanitizer creates a sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Project renders the results for a viewer class.
func (s *Sanitizer) Project(results []*models.MatchResult, viewer string) (interface{}, error) {
	switch viewer {
	case models.ViewerOperator:
		return s.operatorViews(results), nil
	case models.ViewerClient:
		return s.clientViews(results), nil
	case models.ViewerAnonymous:
		return s.anonymousViews(results), nil
	default:
		return nil, fmt.Errorf("unknown viewer class: %s", viewer)
	}
}

func (s *Sanitizer) operatorViews(results []*models.MatchResult) []models.OperatorMatchView {
	views := make([]models.OperatorMatchView, len(results))
	for i, r := range results {
		views[i] = models.OperatorMatchView{
			CandidateID: r.Candidate.ID,
			Name:        r.Candidate.FullName(),
			Email:       r.Candidate.Email,
			Phone:       r.Candidate.Phone,
			Position:    r.Candidate.PrimaryPosition,
			Score:       r.Score,
			Breakdown:   r.Breakdown,
			Strengths:   r.Strengths,
			Concerns:    r.Concerns,
			Summary:     r.Summary,
			Degraded:    r.Degraded,
		}
	}
	return views
}

func (s *Sanitizer) clientViews(results []*models.MatchResult) []models.ClientMatchView {
	views := make([]models.ClientMatchView, len(results))
	for i, r := range results {
		views[i] = models.ClientMatchView{
			CandidateID:     r.Candidate.ID,
			Name:            r.Candidate.FullName(),
			Position:        r.Candidate.PrimaryPosition,
			YearsExperience: r.Candidate.YearsExperience,
			Score:           r.Score,
			ReferenceBadge:  referenceBadge(r.Candidate),
			Strengths:       positiveOnly(r.Strengths),
			Summary:         StripNegativeSentences(r.Summary),
		}
	}
	return views
}

func (s *Sanitizer) anonymousViews(results []*models.MatchResult) []models.AnonymousMatchView {
	views := make([]models.AnonymousMatchView, len(results))
	for i, r := range results {
		band := experienceBand(r.Candidate.YearsExperience)
		views[i] = models.AnonymousMatchView{
			Reference:      candidateReference(i),
			Position:       r.Candidate.PrimaryPosition,
			ExperienceBand: band,
			Score:          r.Score,
			Summary:        fmt.Sprintf("A %s with %s of experience matched for this position.", strings.ToLower(utils.GetStringOrDefault(r.Candidate.PrimaryPosition, "candidate")), band),
		}
	}
	return views
}

// StripNegativeSentences removes every sentence carrying a negative-signal
// keyword. This is the backstop behind the AI judge's soft prompt contract.
func StripNegativeSentences(text string) string {
	if text == "" {
		return ""
	}
	var kept []string
	for _, sentence := range utils.SplitSentences(text) {
		if !isNegative(sentence) {
			kept = append(kept, sentence)
		}
	}
	return strings.Join(kept, " ")
}

// positiveOnly drops any entry that carries a negative keyword. Strength
// lists can contain judge output, which is untrusted.
func positiveOnly(strengths []string) []string {
	var kept []string
	for _, s := range strengths {
		if !isNegative(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

// referenceBadge collapses the reference count and verification tier into a
// qualitative badge.
func referenceBadge(c *models.Candidate) string {
	switch {
	case c.VerificationTier == models.VerificationFull || c.ReferenceCount >= 2:
		return "strong references"
	case c.ReferenceCount == 1 || c.VerificationTier == models.VerificationReference:
		return "references on file"
	default:
		return "verification in progress"
	}
}

// experienceBand buckets years into a coarse tier.
func experienceBand(years float64) string {
	switch {
	case years >= 10:
		return "10+ years"
	case years >= 5:
		return "5-10 years"
	case years >= 2:
		return "2-5 years"
	default:
		return "under 2 years"
	}
}

// candidateReference labels anonymous results Candidate A, B, ... AA, AB
// past 26.
func candidateReference(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return "Candidate " + label
}
