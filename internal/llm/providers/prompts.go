package providers

import (
	"fmt"
	"strings"
	"time"

	"crewmatch/pkg/models"
)

// buildExtractionPrompt creates the prompt that turns a free-text job brief
// into a structured requirement object.
func buildExtractionPrompt(job *models.JobSpec) string {
	return fmt.Sprintf(`You are a yacht crew recruitment analyst. Extract structured hiring requirements from the job posting below and return them as a JSON object.

Return a valid JSON object with exactly these fields:

{
  "position_code": "string - canonical position category: captain, officer, bosun, deckhand, engineer, eto, chief_stewardess, stewardess, purser, chef or cook",
  "alternate_positions": ["array of strings - other acceptable position categories, if the brief names any"],
  "min_years": number - minimum years of relevant experience (0 if not stated),
  "min_vessel_size_m": number - minimum size in meters of vessels the candidate must have worked on (0 if not stated),
  "required_nationalities": ["array of strings - nationalities the role is restricted to"],
  "preferred_nationalities": ["array of strings - nationalities mentioned as preferred"],
  "excluded_nationalities": ["array of strings - nationalities explicitly ruled out"],
  "required_certifications": ["array of strings - certificate codes that are mandatory, e.g. STCW, ENG1, PDSD"],
  "preferred_certifications": ["array of strings - certificates mentioned as nice-to-have"],
  "required_visas": ["array of strings - travel documents that are mandatory, e.g. B1_B2, SCHENGEN"],
  "preferred_visas": ["array of strings - travel documents mentioned as helpful"],
  "required_license": "string - the minimum CoC license, e.g. OOW_3000GT, MASTER_500GT, Y2 ('' if not stated)",
  "languages": ["array of strings - languages the candidate must speak"],
  "required_skills": ["array of strings - hard skills that are mandatory, e.g. kite surfing instruction, silver service"],
  "preferred_skills": ["array of strings - skills mentioned as a plus"],
  "non_smoker": boolean - true only if the brief demands a non-smoker,
  "no_visible_tattoos": boolean - true only if the brief rules out visible tattoos,
  "couples_considered": boolean - true if the brief says couples are considered,
  "priorities": ["array of 3-5 strings - the requirements that matter most for this role, most important first"],
  "confidence": number - your confidence in this extraction between 0.0 and 1.0,
  "inferred": ["array of strings - facts you derived rather than read outright, with a short reason each"],
  "ambiguities": ["array of strings - brief passages you could not resolve into a requirement"]
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. If information is not found, use empty string "" for strings, empty array [] for arrays, 0 for numbers and false for booleans
3. Certificate, visa and license codes must be upper case with underscores instead of spaces
4. Never invent an exclusion: excluded_nationalities may only contain nationalities the text explicitly rules out
5. Record every guess in "inferred" and every unresolved passage in "ambiguities"

JOB POSTING:
Title: %s
Vessel: %s %s (%.0fm)
Region: %s
Contract: %s

BRIEF:
%s`,
		job.Title,
		job.VesselType, job.VesselName, job.VesselSizeM,
		job.Region,
		job.ContractType,
		job.Brief)
}

// buildAssessmentPrompt creates the per-candidate prompt for the AI judge.
// Confidential notes are included as context but the contract forbids the
// model from surfacing them. That instruction is a soft constraint; the
// output sanitizer remains the backstop.
func buildAssessmentPrompt(job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) string {
	return fmt.Sprintf(`You are an experienced yacht crew recruiter judging how well one candidate fits one position. Return your verdict as a JSON object.

Return a valid JSON object with exactly these fields:

{
  "fit_delta": number - overall fit on a 0-10 scale where 5 is neutral, above 5 is a better fit than the deterministic score suggests, below 5 is worse,
  "summary": "string - one sentence on the overall fit",
  "strengths": ["array of strings - concrete reasons this candidate fits"],
  "concerns": ["array of strings - concrete reasons for doubt"]
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. The CONFIDENTIAL NOTES below are context for your judgement only. NEVER quote, paraphrase closely, or otherwise surface their content in any output field. Let them inform fit_delta and the tone of the summary, nothing more.
3. Judge against the requirements, not against an ideal candidate
4. Keep strengths and concerns to at most 3 entries each, one short sentence per entry

POSITION:
%s

REQUIREMENTS:
%s

CONFIDENTIAL NOTES:
%s

CANDIDATE PROFILE:
%s`,
		formatJobContext(job),
		formatRequirements(req),
		job.ConfidentialNotes,
		formatCandidateProfile(candidate))
}

func formatJobContext(job *models.JobSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", job.Title)
	if job.VesselName != "" || job.VesselType != "" {
		fmt.Fprintf(&b, "Vessel: %s %s (%.0fm)\n", job.VesselType, job.VesselName, job.VesselSizeM)
	}
	if job.Region != "" {
		fmt.Fprintf(&b, "Region: %s\n", job.Region)
	}
	if job.ContractType != "" {
		fmt.Fprintf(&b, "Contract: %s\n", job.ContractType)
	}
	if job.SalaryMin != nil || job.SalaryMax != nil {
		min, max := 0, 0
		if job.SalaryMin != nil {
			min = *job.SalaryMin
		}
		if job.SalaryMax != nil {
			max = *job.SalaryMax
		}
		fmt.Fprintf(&b, "Salary: %d-%d %s\n", min, max, job.Currency)
	}
	if job.Brief != "" {
		fmt.Fprintf(&b, "Brief: %s\n", job.Brief)
	}
	return strings.TrimSpace(b.String())
}

func formatRequirements(req *models.Requirements) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\n", req.PositionCode)
	if req.MinYears > 0 {
		fmt.Fprintf(&b, "Minimum experience: %.1f years\n", req.MinYears)
	}
	if req.MinVesselSizeM > 0 {
		fmt.Fprintf(&b, "Minimum vessel size worked: %.0fm\n", req.MinVesselSizeM)
	}
	if req.RequiredLicense != "" {
		fmt.Fprintf(&b, "Minimum license: %s\n", req.RequiredLicense)
	}
	if len(req.RequiredCerts) > 0 {
		fmt.Fprintf(&b, "Required certificates: %s\n", strings.Join(req.RequiredCerts, ", "))
	}
	if len(req.RequiredVisas) > 0 {
		fmt.Fprintf(&b, "Required travel documents: %s\n", strings.Join(req.RequiredVisas, ", "))
	}
	if len(req.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(req.RequiredSkills, ", "))
	}
	if len(req.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(req.Languages, ", "))
	}
	if len(req.Priorities) > 0 {
		fmt.Fprintf(&b, "Priorities: %s\n", strings.Join(req.Priorities, "; "))
	}
	return strings.TrimSpace(b.String())
}

func formatCandidateProfile(c *models.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.FullName())
	fmt.Fprintf(&b, "Position: %s\n", c.PrimaryPosition)
	fmt.Fprintf(&b, "Experience: %.1f years\n", c.YearsExperience)
	if c.HighestLicense != "" {
		fmt.Fprintf(&b, "Highest license: %s\n", c.HighestLicense)
	}
	if len(c.Certifications) > 0 {
		codes := make([]string, 0, len(c.Certifications))
		now := time.Now()
		for _, cert := range c.Certifications {
			code := cert.Code
			if !cert.Valid(now) {
				code += " (expired)"
			}
			codes = append(codes, code)
		}
		fmt.Fprintf(&b, "Certificates: %s\n", strings.Join(codes, ", "))
	}
	if len(c.Visas) > 0 {
		fmt.Fprintf(&b, "Travel documents: %s\n", strings.Join(c.Visas, ", "))
	}
	nationality := c.Nationality
	if c.SecondNationality != "" {
		nationality += ", " + c.SecondNationality
	}
	fmt.Fprintf(&b, "Nationality: %s\n", nationality)
	if len(c.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(c.Languages, ", "))
	}
	fmt.Fprintf(&b, "Smoker: %t, visible tattoos: %t, part of couple: %t\n", c.Smoker, c.VisibleTattoos, c.PartOfCouple)
	fmt.Fprintf(&b, "Availability: %s", c.AvailabilityStatus)
	if c.AvailableFrom != nil {
		fmt.Fprintf(&b, " (from %s)", c.AvailableFrom.Format("2006-01-02"))
	}
	b.WriteString("\n")
	if len(c.Preferences.Regions) > 0 {
		fmt.Fprintf(&b, "Preferred regions: %s\n", strings.Join(c.Preferences.Regions, ", "))
	}
	if len(c.Preferences.ContractTypes) > 0 {
		fmt.Fprintf(&b, "Preferred contracts: %s\n", strings.Join(c.Preferences.ContractTypes, ", "))
	}
	fmt.Fprintf(&b, "Verification: %s (%d references)\n", c.VerificationTier, c.ReferenceCount)
	if c.Summary != "" {
		fmt.Fprintf(&b, "Bio: %s\n", c.Summary)
	}
	return strings.TrimSpace(b.String())
}

// stripMarkdownFences removes a wrapping markdown code block from an LLM
// response, if present.
func stripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}
