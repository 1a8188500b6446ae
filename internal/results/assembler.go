package results

import (
	"sort"
	"strings"

	"crewmatch/pkg/models"
)

// negativeKeywords tags a rationale or summary sentence as a negative
// signal. The scorer and judge phrase their output so this single list can
// split strengths from concerns without a second scoring pass, and the
// sanitizer uses the same list as its redaction backstop.
var negativeKeywords = []string{
	"missing",
	"expired",
	"below",
	"lacks",
	"no evidence",
	"outside",
	"unavailable",
	"unknown",
	"not free",
	"past the",
	"gap",
	"concern",
	"doubt",
	"risk",
	"smoker",
	"tattoo",
	"well below",
}

// isNegative reports whether a piece of explanatory text carries a negative
// signal keyword.
func isNegative(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Assembler combines the deterministic breakdown with the AI delta into the
// final ranked list.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble re-totals every result from its breakdown (the judge writes the
// AI delta in place), derives strengths and concerns from the rationale
// trail, re-sorts and truncates to the caller's limit.
func (a *Assembler) Assemble(results []*models.MatchResult, limit int) []*models.MatchResult {
	for _, r := range results {
		r.Score = r.Breakdown.Total()
		a.deriveExplanations(r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// deriveExplanations splits the rationale trail into strengths and concerns
// by keyword, appending to whatever the judge already contributed.
func (a *Assembler) deriveExplanations(r *models.MatchResult) {
	for _, cat := range r.Breakdown.Categories {
		for _, rationale := range cat.Rationale {
			if isNegative(rationale) {
				if !contains(r.Concerns, rationale) {
					r.Concerns = append(r.Concerns, rationale)
				}
			} else {
				if !contains(r.Strengths, rationale) {
					r.Strengths = append(r.Strengths, rationale)
				}
			}
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
