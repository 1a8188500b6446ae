package models

// MatchRequest is the payload for ranking candidates against a job.
type MatchRequest struct {
	JobID     string          `json:"job_id" validate:"required"`
	Limit     int             `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Viewer    string          `json:"viewer,omitempty" validate:"omitempty,oneof=operator client anonymous"`
	Overrides *MatchOverrides `json:"overrides,omitempty"`
}

// JobsForCandidateRequest is the payload for the symmetric ranking: all open
// jobs ordered for one candidate.
type JobsForCandidateRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}
