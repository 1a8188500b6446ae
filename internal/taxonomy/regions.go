package taxonomy

import "strings"

// Travel document codes used by the region inference table.
const (
	VisaB1B2      = "B1_B2"
	VisaSchengen  = "SCHENGEN"
	VisaGreenCard = "GREEN_CARD"
	VisaC1D       = "C1_D"
)

// regionVisas maps a cruising region to the travel documents crew working
// that region realistically need. The inference is always additive: it can
// add documents to a requirement set but never removes or overrides an
// explicit one.
var regionVisas = map[string][]string{
	"caribbean":         {VisaB1B2},
	"bahamas":           {VisaB1B2},
	"florida":           {VisaB1B2},
	"us east coast":     {VisaB1B2},
	"usa":               {VisaB1B2},
	"mediterranean":     {VisaSchengen},
	"med":               {VisaSchengen},
	"west med":          {VisaSchengen},
	"east med":          {VisaSchengen},
	"adriatic":          {VisaSchengen},
	"worldwide":         {VisaB1B2, VisaSchengen},
	"dual season":       {VisaB1B2, VisaSchengen},
	"atlantic crossing": {VisaB1B2, VisaSchengen},
}

// VisasForRegion returns the travel documents inferred for a region, or nil
// when the region is unknown. Matching is case-insensitive and tolerant of
// composite region strings ("Med / Caribbean dual season").
func VisasForRegion(region string) []string {
	r := strings.ToLower(strings.TrimSpace(region))
	if r == "" {
		return nil
	}
	if visas, ok := regionVisas[r]; ok {
		return append([]string(nil), visas...)
	}

	// Composite or free-form region strings: union every table entry whose
	// key appears in the text.
	seen := make(map[string]bool)
	var out []string
	for key, visas := range regionVisas {
		if strings.Contains(r, key) {
			for _, v := range visas {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		}
	}
	return out
}
