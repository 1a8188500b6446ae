package models

// Requirements is the canonical, fully-merged requirement object a matching
// run executes against. It is produced by merging the job's structured
// requirement fields, the LLM-extracted brief requirements and any caller
// overrides, in that order of increasing precedence.
type Requirements struct {
	PositionCode       string   `json:"position_code"`
	AlternatePositions []string `json:"alternate_positions,omitempty"`

	MinYears       float64 `json:"min_years"`
	MinVesselSizeM float64 `json:"min_vessel_size_m"`

	RequiredNationalities  []string `json:"required_nationalities,omitempty"`
	PreferredNationalities []string `json:"preferred_nationalities,omitempty"`
	ExcludedNationalities  []string `json:"excluded_nationalities,omitempty"`

	RequiredCerts  []string `json:"required_certifications,omitempty"`
	PreferredCerts []string `json:"preferred_certifications,omitempty"`
	RequiredVisas  []string `json:"required_visas,omitempty"`
	PreferredVisas []string `json:"preferred_visas,omitempty"`

	RequiredLicense string `json:"required_license,omitempty"`

	Languages       []string `json:"languages,omitempty"`
	RequiredSkills  []string `json:"required_skills,omitempty"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`

	NonSmoker         bool `json:"non_smoker,omitempty"`
	NoVisibleTattoos  bool `json:"no_visible_tattoos,omitempty"`
	CouplesConsidered bool `json:"couples_considered,omitempty"`

	// Priorities is a ranked, human-readable list of the 3-5 requirements
	// that matter most for this position.
	Priorities []string `json:"priorities,omitempty"`

	// Parsing metadata. Confidence is in [0,1]. Inferred lists the facts
	// that were derived rather than stated outright; Ambiguities records
	// brief passages the extractor could not resolve.
	Confidence  float64  `json:"confidence"`
	Inferred    []string `json:"inferred,omitempty"`
	Ambiguities []string `json:"ambiguities,omitempty"`
}

// MatchOverrides are caller-supplied adjustments to the effective filter set.
// They take precedence over both extracted and structured requirements.
// Exclusion lists are unioned, never replaced; cert toggles can forcibly add
// or remove a single certification requirement.
type MatchOverrides struct {
	ExcludedNationalities []string `json:"excluded_nationalities,omitempty"`
	AddRequiredCerts      []string `json:"add_required_certifications,omitempty"`
	RemoveRequiredCerts   []string `json:"remove_required_certifications,omitempty"`
	AddRequiredSkills     []string `json:"add_required_skills,omitempty"`
	MinYears              *float64 `json:"min_years,omitempty"`
	MinVesselSizeM        *float64 `json:"min_vessel_size_m,omitempty"`
	PositionCode          string   `json:"position_code,omitempty"`
}
