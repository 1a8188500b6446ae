package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/taxonomy"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// Category maxima. These sum to exactly 100 together and form the fixed
// weighting contract of every score breakdown; the AI assessment slot is
// reserved here and filled in by the result assembler.
const (
	maxQualifications = 25.0
	maxExperience     = 25.0
	maxSkills         = 15.0
	maxAvailability   = 10.0
	maxPreferences    = 10.0
	maxVerification   = 5.0
	maxAIAssessment   = 10.0
)

// Qualification sub-weights.
const (
	certPoints    = 12.0
	licensePoints = 8.0
	visaPoints    = 5.0
)

// Experience sub-weights and the years curve: full credit is reached at the
// required minimum plus this margin, partial credit proportionally below.
const (
	yearsPoints        = 15.0
	vesselPoints       = 10.0
	yearsFullAtMargin  = 3.0
	vesselFullRatio    = 0.9  // within 10% of the requirement
	vesselPartialRatio = 0.65 // one band below
)

// Scorer computes the deterministic weighted score for candidates against a
// requirement set. A scorer is stateless across candidates; now is
// injectable so runs are a pure function of (job, candidates, time).
type Scorer struct {
	config *config.Config
	now    func() time.Time
}

// NewScorer creates a scorer using wall-clock time.
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{config: cfg, now: time.Now}
}

// NewScorerAt creates a scorer with a fixed clock.
func NewScorerAt(cfg *config.Config, now func() time.Time) *Scorer {
	return &Scorer{config: cfg, now: now}
}

// ScoreAll scores every candidate and returns results sorted by total score
// descending. Ties break on candidate ID so identical snapshots always
// produce identical orderings.
func (s *Scorer) ScoreAll(job *models.JobSpec, req *models.Requirements, candidates []*models.Candidate) []*models.MatchResult {
	results := make([]*models.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = s.Score(job, req, c)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})
	return results
}

// Score computes the full category breakdown for one candidate.
func (s *Scorer) Score(job *models.JobSpec, req *models.Requirements, c *models.Candidate) *models.MatchResult {
	breakdown := models.ScoreBreakdown{
		Categories: []models.CategoryScore{
			s.scoreQualifications(req, c),
			s.scoreExperience(req, c),
			s.scoreSkills(req, c),
			s.scoreAvailability(job, c),
			s.scorePreferences(job, c),
			s.scoreVerification(c),
			{Name: models.CategoryAIAssessment, Achieved: 0, Maximum: maxAIAssessment},
		},
	}

	return &models.MatchResult{
		Candidate: c,
		Score:     breakdown.Total(),
		Breakdown: breakdown,
	}
}

func (s *Scorer) scoreQualifications(req *models.Requirements, c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategoryQualifications, Maximum: maxQualifications}
	now := s.now()

	// Required certificates.
	if len(req.RequiredCerts) == 0 {
		cat.Achieved += certPoints
		cat.Rationale = append(cat.Rationale, "no specific certificates required")
	} else {
		held := 0
		for _, code := range req.RequiredCerts {
			if c.HasValidCert(code, now) {
				held++
			} else {
				cat.Rationale = append(cat.Rationale, fmt.Sprintf("missing or expired certificate %s", code))
			}
		}
		cat.Achieved += certPoints * float64(held) / float64(len(req.RequiredCerts))
		if held == len(req.RequiredCerts) {
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("holds all %d required certificates", held))
		}
	}

	// License level.
	switch {
	case req.RequiredLicense == "":
		cat.Achieved += licensePoints
		cat.Rationale = append(cat.Rationale, "no license requirement for this position")
	case taxonomy.LicenseSatisfies(c.HighestLicense, req.RequiredLicense):
		cat.Achieved += licensePoints
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%s meets the %s requirement", c.HighestLicense, req.RequiredLicense))
	default:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("license below required %s", req.RequiredLicense))
	}

	// Travel document coverage.
	if len(req.RequiredVisas) == 0 {
		cat.Achieved += visaPoints
		cat.Rationale = append(cat.Rationale, "no travel document requirement")
	} else {
		heldVisas := make([]string, 0, len(c.Visas))
		for _, v := range c.Visas {
			heldVisas = append(heldVisas, utils.NormalizeCode(v))
		}
		covered := 0
		for _, visa := range req.RequiredVisas {
			if utils.Contains(heldVisas, visa) {
				covered++
			} else {
				cat.Rationale = append(cat.Rationale, fmt.Sprintf("missing travel document %s", visa))
			}
		}
		cat.Achieved += visaPoints * float64(covered) / float64(len(req.RequiredVisas))
		if covered == len(req.RequiredVisas) {
			cat.Rationale = append(cat.Rationale, "holds all required travel documents")
		}
	}

	return cat
}

func (s *Scorer) scoreExperience(req *models.Requirements, c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategoryExperience, Maximum: maxExperience}

	// Years curve: full credit at the required minimum plus a margin,
	// proportional below.
	fullAt := req.MinYears + yearsFullAtMargin
	fraction := c.YearsExperience / fullAt
	if fraction > 1 {
		fraction = 1
	}
	cat.Achieved += yearsPoints * fraction
	switch {
	case c.YearsExperience >= fullAt:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.1f years of experience, comfortably above the %.1f year minimum", c.YearsExperience, req.MinYears))
	case c.YearsExperience >= req.MinYears:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.1f years of experience meets the %.1f year minimum", c.YearsExperience, req.MinYears))
	default:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.1f years of experience is below the %.1f year minimum", c.YearsExperience, req.MinYears))
	}

	// Vessel-scale proximity, tiered: full within 10% of the requirement,
	// partial one band outside, minimal beyond.
	cat.Achieved += s.scoreVesselScale(req, c, &cat)

	return cat
}

func (s *Scorer) scoreVesselScale(req *models.Requirements, c *models.Candidate, cat *models.CategoryScore) float64 {
	if req.MinVesselSizeM <= 0 {
		cat.Rationale = append(cat.Rationale, "no vessel size requirement")
		return vesselPoints
	}

	scale := c.Preferences.MaxVesselSizeM
	if scale < c.Preferences.MinVesselSizeM {
		scale = c.Preferences.MinVesselSizeM
	}
	if scale <= 0 {
		// No data on either side gets neutral partial credit, not a penalty.
		cat.Rationale = append(cat.Rationale, "vessel size history unknown, neutral credit")
		return vesselPoints / 2
	}

	ratio := scale / req.MinVesselSizeM
	switch {
	case ratio >= vesselFullRatio:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.0fm vessel experience fits the %.0fm requirement", scale, req.MinVesselSizeM))
		return vesselPoints
	case ratio >= vesselPartialRatio:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.0fm vessel experience is below the %.0fm requirement, partial credit for the gap", scale, req.MinVesselSizeM))
		return vesselPoints / 2
	default:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%.0fm vessel experience is well below the %.0fm requirement", scale, req.MinVesselSizeM))
		return vesselPoints / 5
	}
}

// skillSynonyms maps a required-skill keyword to alternative phrasings that
// also count as a hit in profile text.
var skillSynonyms = map[string][]string{
	"silver service":  {"fine dining", "formal service"},
	"watersports":     {"jet ski", "jetski", "wakeboard", "seabob", "water sports"},
	"kitesurfing":     {"kite surfing", "kiteboarding"},
	"diving":          {"padi", "dive master", "divemaster", "scuba"},
	"mixology":        {"cocktail", "bartending"},
	"carpentry":       {"joinery", "woodwork"},
	"av_it":           {"av/it", "audio visual", "networking"},
	"wine knowledge":  {"sommelier", "wset"},
	"tender driving":  {"tender operations", "powerboat"},
	"floristry":       {"flower arranging"},
	"housekeeping":    {"laundry", "interior detailing"},
	"massage":         {"spa", "beautician", "therapist"},
	"fishing":         {"sport fishing", "game fishing"},
	"security":        {"close protection", "maritime security"},
	"foreign cuisine": {"asian cuisine", "mediterranean cuisine", "sushi"},
}

func (s *Scorer) scoreSkills(req *models.Requirements, c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategorySkills, Maximum: maxSkills}

	if len(req.RequiredSkills) == 0 {
		cat.Achieved = maxSkills
		cat.Rationale = append(cat.Rationale, "no specific skills required")
		return cat
	}

	profile := utils.NormalizeText(strings.Join([]string{c.PrimaryPosition, c.Summary}, " "))

	found := 0
	for _, skill := range req.RequiredSkills {
		if profileHasSkill(profile, skill) {
			found++
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("profile shows %s", skill))
		} else {
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("no evidence of %s in profile", skill))
		}
	}

	cat.Achieved = maxSkills * float64(found) / float64(len(req.RequiredSkills))
	return cat
}

func profileHasSkill(profile, skill string) bool {
	key := utils.NormalizeText(skill)
	if strings.Contains(profile, key) {
		return true
	}
	for _, synonym := range skillSynonyms[key] {
		if strings.Contains(profile, synonym) {
			return true
		}
	}
	return false
}

// Availability tier points out of the category maximum.
var availabilityPoints = map[string]float64{
	models.AvailabilityAvailable:   maxAvailability,
	models.AvailabilityFromDate:    8,
	models.AvailabilityOnRotation:  6,
	models.AvailabilityEmployed:    3,
	models.AvailabilityUnavailable: 0,
}

func (s *Scorer) scoreAvailability(job *models.JobSpec, c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategoryAvailability, Maximum: maxAvailability}

	points, known := availabilityPoints[c.AvailabilityStatus]
	if !known {
		cat.Achieved = maxAvailability / 2
		cat.Rationale = append(cat.Rationale, "availability status unknown, neutral credit")
		return cat
	}

	// Start-date alignment with a grace window.
	if c.AvailabilityStatus == models.AvailabilityFromDate && c.AvailableFrom != nil && job.StartDate != nil {
		latest := job.StartDate.Add(s.config.Matching.AvailabilityGrace)
		if c.AvailableFrom.After(latest) {
			points = 2
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("not free until %s, past the start date grace window", c.AvailableFrom.Format("2006-01-02")))
		} else {
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("free from %s, within the start date window", c.AvailableFrom.Format("2006-01-02")))
		}
	} else {
		switch c.AvailabilityStatus {
		case models.AvailabilityAvailable:
			cat.Rationale = append(cat.Rationale, "immediately available")
		case models.AvailabilityUnavailable:
			cat.Rationale = append(cat.Rationale, "currently unavailable")
		default:
			cat.Rationale = append(cat.Rationale, fmt.Sprintf("availability status %s", c.AvailabilityStatus))
		}
	}

	cat.Achieved = points
	return cat
}

// Preference alignment: region, contract type and compensation are scored
// independently; absent data on either side earns neutral partial credit.
func (s *Scorer) scorePreferences(job *models.JobSpec, c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategoryPreferences, Maximum: maxPreferences}
	per := maxPreferences / 3

	// Region.
	switch {
	case job.Region == "" || len(c.Preferences.Regions) == 0:
		cat.Achieved += per / 2
		cat.Rationale = append(cat.Rationale, "region preference data absent, neutral credit")
	case regionOverlaps(job.Region, c.Preferences.Regions):
		cat.Achieved += per
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("prefers working the %s region", job.Region))
	default:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("region %s is outside the candidate's preferred regions", job.Region))
	}

	// Contract type.
	switch {
	case job.ContractType == "" || len(c.Preferences.ContractTypes) == 0:
		cat.Achieved += per / 2
		cat.Rationale = append(cat.Rationale, "contract preference data absent, neutral credit")
	case containsFold(c.Preferences.ContractTypes, job.ContractType):
		cat.Achieved += per
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("open to %s contracts", job.ContractType))
	default:
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("contract type %s is outside the candidate's preferences", job.ContractType))
	}

	// Compensation.
	switch {
	case job.SalaryMax == nil || c.Preferences.MinSalary == 0:
		cat.Achieved += per / 2
		cat.Rationale = append(cat.Rationale, "compensation data absent, neutral credit")
	case *job.SalaryMax >= c.Preferences.MinSalary:
		cat.Achieved += per
		cat.Rationale = append(cat.Rationale, "budget covers the candidate's salary expectation")
	default:
		cat.Rationale = append(cat.Rationale, "budget is below the candidate's salary expectation")
	}

	return cat
}

func regionOverlaps(region string, preferred []string) bool {
	r := utils.NormalizeText(region)
	for _, p := range preferred {
		p = utils.NormalizeText(p)
		if p == "" {
			continue
		}
		if strings.Contains(r, p) || strings.Contains(p, r) || p == "worldwide" {
			return true
		}
	}
	return false
}

func containsFold(slice []string, item string) bool {
	item = utils.NormalizeText(item)
	for _, s := range slice {
		if utils.NormalizeText(s) == item {
			return true
		}
	}
	return false
}

// Verification tier points; multiple corroborating references earn a small
// bonus up to the category maximum.
var verificationPoints = map[string]float64{
	models.VerificationBasic:     1,
	models.VerificationIdentity:  2,
	models.VerificationReference: 3,
	models.VerificationFull:      4,
}

const referenceBonusThreshold = 2

func (s *Scorer) scoreVerification(c *models.Candidate) models.CategoryScore {
	cat := models.CategoryScore{Name: models.CategoryVerification, Maximum: maxVerification}

	points, known := verificationPoints[c.VerificationTier]
	if !known {
		cat.Rationale = append(cat.Rationale, "verification tier unknown")
		cat.Achieved = 0
		return cat
	}

	cat.Rationale = append(cat.Rationale, fmt.Sprintf("verification tier %s", c.VerificationTier))
	if c.ReferenceCount >= referenceBonusThreshold {
		points++
		cat.Rationale = append(cat.Rationale, fmt.Sprintf("%d corroborating references on file", c.ReferenceCount))
	}
	if points > maxVerification {
		points = maxVerification
	}

	cat.Achieved = points
	return cat
}
