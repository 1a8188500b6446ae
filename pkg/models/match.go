package models

// Score category names. Maxima are fixed: the six categories always sum to
// exactly 100 and must not drift between code paths.
const (
	CategoryQualifications = "qualifications"
	CategoryExperience     = "experience"
	CategorySkills         = "skills"
	CategoryAvailability   = "availability"
	CategoryPreferences    = "preferences"
	CategoryVerification   = "verification"
	CategoryAIAssessment   = "ai_assessment"
)

// CategoryScore is one scored category with its rationale trail.
type CategoryScore struct {
	Name      string   `json:"name"`
	Achieved  float64  `json:"achieved"`
	Maximum   float64  `json:"maximum"`
	Rationale []string `json:"rationale,omitempty"`
}

// ScoreBreakdown is the per-category decomposition of a match score.
type ScoreBreakdown struct {
	Categories []CategoryScore `json:"categories"`
}

// Total returns the sum of achieved points across all categories.
func (b *ScoreBreakdown) Total() float64 {
	var total float64
	for _, c := range b.Categories {
		total += c.Achieved
	}
	return total
}

// MaximumTotal returns the sum of category maxima.
func (b *ScoreBreakdown) MaximumTotal() float64 {
	var total float64
	for _, c := range b.Categories {
		total += c.Maximum
	}
	return total
}

// Category returns the named category score, or nil if absent.
func (b *ScoreBreakdown) Category(name string) *CategoryScore {
	for i := range b.Categories {
		if b.Categories[i].Name == name {
			return &b.Categories[i]
		}
	}
	return nil
}

// Assessment is the AI judge's verdict for one candidate.
type Assessment struct {
	FitDelta  float64  `json:"fit_delta"` // 0-10, neutral default 5
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths,omitempty"`
	Concerns  []string `json:"concerns,omitempty"`
	Degraded  bool     `json:"degraded,omitempty"`
}

// MatchResult is the full internal result for one candidate in a run. It is
// a projection, re-derivable from the job and candidate snapshot, and is
// never persisted as authoritative state. Only sanitized views leave the
// process.
type MatchResult struct {
	Candidate *Candidate     `json:"candidate"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Strengths []string       `json:"strengths,omitempty"`
	Concerns  []string       `json:"concerns,omitempty"`
	Summary   string         `json:"summary,omitempty"`

	SemanticRank int     `json:"semantic_rank,omitempty"`
	RerankScore  float64 `json:"rerank_score,omitempty"`
	Degraded     bool    `json:"degraded,omitempty"`
}

// Viewer permission levels for sanitized projections.
const (
	ViewerOperator  = "operator"
	ViewerClient    = "client"
	ViewerAnonymous = "anonymous"
)

// OperatorMatchView is the unrestricted internal projection.
type OperatorMatchView struct {
	CandidateID string         `json:"candidate_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Position    string         `json:"position"`
	Score       float64        `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Strengths   []string       `json:"strengths,omitempty"`
	Concerns    []string       `json:"concerns,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Degraded    bool           `json:"degraded,omitempty"`
}

// ClientMatchView is the counterparty projection: no contact details, no
// negative language, reference count collapsed to a qualitative badge.
type ClientMatchView struct {
	CandidateID     string   `json:"candidate_id"`
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	YearsExperience float64  `json:"years_experience"`
	Score           float64  `json:"score"`
	ReferenceBadge  string   `json:"reference_badge"`
	Strengths       []string `json:"strengths,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// AnonymousMatchView carries no identity: experience is bucketed into a
// coarse tier and the summary is a single generic sentence.
type AnonymousMatchView struct {
	Reference       string  `json:"reference"` // e.g. "Candidate A"
	Position        string  `json:"position"`
	ExperienceBand  string  `json:"experience_band"`
	Score           float64 `json:"score"`
	Summary         string  `json:"summary"`
}
