package models

import "time"

// MatchResponse is the ranked shortlist returned to the caller. Results holds
// one of the three sanitized view slices depending on the requested viewer.
type MatchResponse struct {
	Success        bool          `json:"success"`
	JobID          string        `json:"job_id"`
	Viewer         string        `json:"viewer"`
	Results        interface{}   `json:"results"`
	Total          int           `json:"total"`
	DegradedStages []string      `json:"degraded_stages,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// JobRankResponse is the ranked open-job list for one candidate.
type JobRankResponse struct {
	Success        bool          `json:"success"`
	CandidateID    string        `json:"candidate_id"`
	Results        []RankedJob   `json:"results"`
	Total          int           `json:"total"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// RankedJob is one scored job in a reverse-ranking run.
type RankedJob struct {
	JobID     string         `json:"job_id"`
	Title     string         `json:"title"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AsyncTaskResponse acknowledges an accepted async matching request.
type AsyncTaskResponse struct {
	ProcessID string    `json:"process_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
