package models

import "time"

// JobSpec represents a crew position as posted by the placement workflow.
// A JobSpec is immutable for the duration of a matching run.
type JobSpec struct {
	ID           string     `json:"id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Category     string     `json:"category"`
	VesselName   string     `json:"vessel_name,omitempty"`
	VesselType   string     `json:"vessel_type,omitempty"` // motor, sailing, chase, shadow
	VesselSizeM  float64    `json:"vessel_size_m,omitempty"`
	ContractType string     `json:"contract_type,omitempty"` // permanent, rotational, seasonal, temporary, daywork
	Region       string     `json:"region,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	SalaryMin    *int       `json:"salary_min,omitempty"`
	SalaryMax    *int       `json:"salary_max,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	Brief        string     `json:"brief,omitempty"`

	// ConfidentialNotes is internal-only context for AI assessment. It is
	// never serialized and must never reach a sanitized projection.
	ConfidentialNotes string `json:"-"`

	Requirements JobRequirements `json:"requirements"`

	Status    string    `json:"status,omitempty"` // OPEN, CLOSED, FILLED
	PostedAt  time.Time `json:"posted_at,omitempty"`
	Embedding []float32 `json:"-"`
}

// JobRequirements is the structured requirement sub-object attached to a
// job posting. Free-text requirements live in JobSpec.Brief and are merged
// in by the requirement extractor.
type JobRequirements struct {
	Certifications         []string `json:"certifications,omitempty"`
	PreferredCerts         []string `json:"preferred_certifications,omitempty"`
	Visas                  []string `json:"visas,omitempty"`
	MinYearsExperience     float64  `json:"min_years_experience,omitempty"`
	MinVesselSizeM         float64  `json:"min_vessel_size_m,omitempty"`
	Nationalities          []string `json:"nationalities,omitempty"`
	PreferredNationalities []string `json:"preferred_nationalities,omitempty"`
	ExcludedNationalities  []string `json:"excluded_nationalities,omitempty"`
	Languages              []string `json:"languages,omitempty"`
	Skills                 []string `json:"skills,omitempty"`
	PreferredSkills        []string `json:"preferred_skills,omitempty"`
	RequiredLicense        string   `json:"required_license,omitempty"`
	NonSmoker              bool     `json:"non_smoker,omitempty"`
	NoVisibleTattoos       bool     `json:"no_visible_tattoos,omitempty"`
	CouplesConsidered      bool     `json:"couples_considered,omitempty"`
}
