package requirements

import (
	"fmt"

	"crewmatch/internal/taxonomy"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// Vessel-size inference: crew who worked a somewhat smaller vessel are still
// credible for this one, so the implied requirement is a fraction of the
// job's vessel size, floored so small-vessel jobs do not filter on size at
// all effectively.
const (
	vesselSizeInferenceRatio = 0.7
	minInferredVesselSizeM   = 20.0
)

// fallbackConfidence is recorded when a brief existed but could not be
// parsed, so only structured fields informed the requirement set. A job with
// no brief at all keeps full confidence.
const fallbackConfidence = 0.5

// Build merges the three requirement sources into the canonical requirement
// object a matching run executes against. Precedence is overrides, then
// extracted, then the job's structured fields. Exclusion lists are unioned
// across all sources and never shrink; only the explicit remove toggle can
// drop a required certification.
func Build(job *models.JobSpec, extracted *models.Requirements, overrides *models.MatchOverrides) *models.Requirements {
	req := fromStructured(job)

	if extracted != nil {
		mergeExtracted(req, extracted)
	} else if job.Brief != "" {
		req.Confidence = fallbackConfidence
		req.Ambiguities = append(req.Ambiguities, "brief present but not parsed; requirements built from structured fields only")
	}

	if overrides != nil {
		applyOverrides(req, overrides)
	}

	normalize(req)
	infer(req, job)

	return req
}

// fromStructured seeds a requirement object from the job's structured fields.
func fromStructured(job *models.JobSpec) *models.Requirements {
	jr := job.Requirements
	return &models.Requirements{
		PositionCode:           job.Category,
		MinYears:               jr.MinYearsExperience,
		MinVesselSizeM:         jr.MinVesselSizeM,
		RequiredNationalities:  jr.Nationalities,
		PreferredNationalities: jr.PreferredNationalities,
		ExcludedNationalities:  jr.ExcludedNationalities,
		RequiredCerts:          jr.Certifications,
		PreferredCerts:         jr.PreferredCerts,
		RequiredVisas:          jr.Visas,
		RequiredLicense:        jr.RequiredLicense,
		Languages:              jr.Languages,
		RequiredSkills:         jr.Skills,
		PreferredSkills:        jr.PreferredSkills,
		NonSmoker:              jr.NonSmoker,
		NoVisibleTattoos:       jr.NoVisibleTattoos,
		CouplesConsidered:      jr.CouplesConsidered,
		Confidence:             1.0,
	}
}

func mergeExtracted(req, extracted *models.Requirements) {
	if extracted.PositionCode != "" {
		req.PositionCode = extracted.PositionCode
	}
	req.AlternatePositions = utils.UnionStrings(req.AlternatePositions, extracted.AlternatePositions)

	if extracted.MinYears > 0 {
		req.MinYears = extracted.MinYears
	}
	if extracted.MinVesselSizeM > 0 {
		req.MinVesselSizeM = extracted.MinVesselSizeM
	}
	if extracted.RequiredLicense != "" {
		req.RequiredLicense = extracted.RequiredLicense
	}

	req.RequiredNationalities = utils.UnionStrings(req.RequiredNationalities, extracted.RequiredNationalities)
	req.PreferredNationalities = utils.UnionStrings(req.PreferredNationalities, extracted.PreferredNationalities)
	req.ExcludedNationalities = utils.UnionStrings(req.ExcludedNationalities, extracted.ExcludedNationalities)

	req.RequiredCerts = utils.UnionStrings(req.RequiredCerts, extracted.RequiredCerts)
	req.PreferredCerts = utils.UnionStrings(req.PreferredCerts, extracted.PreferredCerts)
	req.RequiredVisas = utils.UnionStrings(req.RequiredVisas, extracted.RequiredVisas)
	req.PreferredVisas = utils.UnionStrings(req.PreferredVisas, extracted.PreferredVisas)

	req.Languages = utils.UnionStrings(req.Languages, extracted.Languages)
	req.RequiredSkills = utils.UnionStrings(req.RequiredSkills, extracted.RequiredSkills)
	req.PreferredSkills = utils.UnionStrings(req.PreferredSkills, extracted.PreferredSkills)

	req.NonSmoker = req.NonSmoker || extracted.NonSmoker
	req.NoVisibleTattoos = req.NoVisibleTattoos || extracted.NoVisibleTattoos
	req.CouplesConsidered = req.CouplesConsidered || extracted.CouplesConsidered

	req.Priorities = extracted.Priorities
	req.Confidence = extracted.Confidence
	req.Inferred = append(req.Inferred, extracted.Inferred...)
	req.Ambiguities = append(req.Ambiguities, extracted.Ambiguities...)
}

func applyOverrides(req *models.Requirements, overrides *models.MatchOverrides) {
	if overrides.PositionCode != "" {
		req.PositionCode = overrides.PositionCode
	}
	if overrides.MinYears != nil {
		req.MinYears = *overrides.MinYears
	}
	if overrides.MinVesselSizeM != nil {
		req.MinVesselSizeM = *overrides.MinVesselSizeM
	}

	req.ExcludedNationalities = utils.UnionStrings(req.ExcludedNationalities, overrides.ExcludedNationalities)
	req.RequiredCerts = utils.UnionStrings(req.RequiredCerts, overrides.AddRequiredCerts)
	req.RequiredSkills = utils.UnionStrings(req.RequiredSkills, overrides.AddRequiredSkills)

	if len(overrides.RemoveRequiredCerts) > 0 {
		remove := make([]string, 0, len(overrides.RemoveRequiredCerts))
		for _, code := range overrides.RemoveRequiredCerts {
			remove = append(remove, utils.NormalizeCode(code))
		}
		normalized := make([]string, 0, len(req.RequiredCerts))
		for _, code := range req.RequiredCerts {
			normalized = append(normalized, utils.NormalizeCode(code))
		}
		req.RequiredCerts = utils.RemoveStrings(normalized, remove)
	}
}

// normalize canonicalizes every code-valued field so downstream comparisons
// are exact.
func normalize(req *models.Requirements) {
	if code, ok := taxonomy.NormalizeCategory(req.PositionCode); ok {
		req.PositionCode = code
	} else {
		req.PositionCode = utils.NormalizeText(req.PositionCode)
	}

	req.RequiredCerts = normalizeCodes(req.RequiredCerts)
	req.PreferredCerts = normalizeCodes(req.PreferredCerts)
	req.RequiredVisas = normalizeCodes(req.RequiredVisas)
	req.PreferredVisas = normalizeCodes(req.PreferredVisas)

	if req.RequiredLicense != "" {
		req.RequiredLicense = taxonomy.NormalizeLicense(req.RequiredLicense)
	}

	req.RequiredNationalities = normalizeNationalities(req.RequiredNationalities)
	req.PreferredNationalities = normalizeNationalities(req.PreferredNationalities)
	req.ExcludedNationalities = normalizeNationalities(req.ExcludedNationalities)
}

func normalizeCodes(codes []string) []string {
	if len(codes) == 0 {
		return codes
	}
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, utils.NormalizeCode(code))
	}
	return utils.UnionStrings(out)
}

func normalizeNationalities(raw []string) []string {
	if len(raw) == 0 {
		return raw
	}
	out := make([]string, 0, len(raw))
	for _, n := range raw {
		out = append(out, taxonomy.NormalizeNationality(n))
	}
	return utils.UnionStrings(out)
}

// infer fills gaps the sources left open. Inference is always additive: it
// never overrides an explicitly stated requirement.
func infer(req *models.Requirements, job *models.JobSpec) {
	if req.PositionCode == "" {
		if category := taxonomy.InferCategory(job.Title); category != "" {
			req.PositionCode = category
			req.Inferred = append(req.Inferred, fmt.Sprintf("position_code: inferred %q from title %q", category, job.Title))
		}
	}

	if visas := taxonomy.VisasForRegion(job.Region); len(visas) > 0 {
		before := len(req.RequiredVisas)
		req.RequiredVisas = utils.UnionStrings(req.RequiredVisas, visas)
		if len(req.RequiredVisas) > before {
			req.Inferred = append(req.Inferred, fmt.Sprintf("required_visas: region %q implies %v", job.Region, visas))
		}
	}

	if req.MinVesselSizeM == 0 && job.VesselSizeM > 0 {
		inferred := job.VesselSizeM * vesselSizeInferenceRatio
		if inferred < minInferredVesselSizeM {
			inferred = minInferredVesselSizeM
		}
		req.MinVesselSizeM = inferred
		req.Inferred = append(req.Inferred, fmt.Sprintf("min_vessel_size_m: %.0fm vessel implies experience on %.0fm+", job.VesselSizeM, inferred))
	}
}
