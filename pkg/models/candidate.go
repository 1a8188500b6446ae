package models

import "time"

// Availability status tiers, best to worst from a placement perspective.
const (
	AvailabilityAvailable   = "available"
	AvailabilityFromDate    = "available_from"
	AvailabilityOnRotation  = "on_rotation"
	AvailabilityEmployed    = "employed"
	AvailabilityUnavailable = "unavailable"
)

// Verification tiers, ordinal from least to most verified.
const (
	VerificationBasic     = "basic"
	VerificationIdentity  = "identity_checked"
	VerificationReference = "reference_checked"
	VerificationFull      = "fully_verified"
)

// Certification is a held certificate with an optional expiry date.
type Certification struct {
	Code   string     `json:"code"`
	Expiry *time.Time `json:"expiry,omitempty"`
}

// Valid reports whether the certification has not expired at the given time.
func (c Certification) Valid(now time.Time) bool {
	return c.Expiry == nil || c.Expiry.After(now)
}

// CandidatePreferences holds what the candidate is looking for, used for
// soft preference-alignment scoring only.
type CandidatePreferences struct {
	Regions        []string `json:"regions,omitempty"`
	VesselTypes    []string `json:"vessel_types,omitempty"`
	MinVesselSizeM float64  `json:"min_vessel_size_m,omitempty"`
	MaxVesselSizeM float64  `json:"max_vessel_size_m,omitempty"`
	ContractTypes  []string `json:"contract_types,omitempty"`
	MinSalary      int      `json:"min_salary,omitempty"`
	Currency       string   `json:"currency,omitempty"`
}

// Candidate represents a crew member profile as stored in the candidate pool.
// Records are read-only from the matching pipeline's perspective.
type Candidate struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	PrimaryPosition   string `json:"primary_position"` // free-text title, e.g. "First Officer"
	Category          string `json:"category,omitempty"`
	SecondaryCategory string `json:"secondary_category,omitempty"`

	YearsExperience   float64         `json:"years_experience"`
	HighestLicense    string          `json:"highest_license,omitempty"`
	Certifications    []Certification `json:"certifications,omitempty"`
	Visas             []string        `json:"visas,omitempty"`
	Nationality       string          `json:"nationality"`
	SecondNationality string          `json:"second_nationality,omitempty"`
	Languages         []string        `json:"languages,omitempty"`

	Smoker         bool `json:"smoker"`
	VisibleTattoos bool `json:"visible_tattoos"`
	PartOfCouple   bool `json:"part_of_couple"`

	Preferences CandidatePreferences `json:"preferences"`

	AvailabilityStatus string     `json:"availability_status"`
	AvailableFrom      *time.Time `json:"available_from,omitempty"`

	VerificationTier string `json:"verification_tier"`
	ReferenceCount   int    `json:"reference_count"`

	Summary   string    `json:"summary,omitempty"` // free-text profile summary
	Embedding []float32 `json:"-"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FullName returns the candidate's display name.
func (c *Candidate) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// HasValidCert reports whether the candidate holds an unexpired certification
// with the given (already normalized) code.
func (c *Candidate) HasValidCert(code string, now time.Time) bool {
	for _, cert := range c.Certifications {
		if cert.Code == code && cert.Valid(now) {
			return true
		}
	}
	return false
}

// verificationRank maps verification tiers to their ordinal position.
var verificationRank = map[string]int{
	VerificationBasic:     0,
	VerificationIdentity:  1,
	VerificationReference: 2,
	VerificationFull:      3,
}

// VerificationRank returns the ordinal rank of a verification tier,
// or -1 for an unknown tier.
func VerificationRank(tier string) int {
	if rank, ok := verificationRank[tier]; ok {
		return rank
	}
	return -1
}
