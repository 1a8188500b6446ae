package taxonomy

import "strings"

// nationalityAliases converges country names, demonyms and ISO-style codes
// on one canonical token. The table covers the nationalities the agency
// actually places; anything outside it falls back to a normalized literal so
// containment matching still applies.
var nationalityAliases = map[string]string{
	// South Africa
	"south africa": "ZA", "south african": "ZA", "za": "ZA", "zaf": "ZA",
	// United Kingdom
	"united kingdom": "GB", "uk": "GB", "gb": "GB", "gbr": "GB",
	"british": "GB", "england": "GB", "english": "GB", "scottish": "GB", "welsh": "GB",
	"great britain": "GB",
	// United States
	"united states": "US", "usa": "US", "us": "US", "american": "US",
	"united states of america": "US",
	// Australia
	"australia": "AU", "australian": "AU", "au": "AU", "aus": "AU",
	// New Zealand
	"new zealand": "NZ", "new zealander": "NZ", "kiwi": "NZ", "nz": "NZ", "nzl": "NZ",
	// Philippines
	"philippines": "PH", "filipino": "PH", "filipina": "PH", "ph": "PH", "phl": "PH",
	// France
	"france": "FR", "french": "FR", "fr": "FR", "fra": "FR",
	// Italy
	"italy": "IT", "italian": "IT", "it": "IT", "ita": "IT",
	// Spain
	"spain": "ES", "spanish": "ES", "es": "ES", "esp": "ES",
	// Germany
	"germany": "DE", "german": "DE", "de": "DE", "deu": "DE",
	// Netherlands
	"netherlands": "NL", "dutch": "NL", "nl": "NL", "nld": "NL", "holland": "NL",
	// Croatia
	"croatia": "HR", "croatian": "HR", "hr": "HR", "hrv": "HR",
	// Poland
	"poland": "PL", "polish": "PL", "pl": "PL", "pol": "PL",
	// Ukraine
	"ukraine": "UA", "ukrainian": "UA", "ua": "UA", "ukr": "UA",
	// Russia
	"russia": "RU", "russian": "RU", "ru": "RU", "rus": "RU",
	// Brazil
	"brazil": "BR", "brazilian": "BR", "br": "BR", "bra": "BR",
	// Canada
	"canada": "CA", "canadian": "CA", "ca": "CA", "can": "CA",
	// Ireland
	"ireland": "IE", "irish": "IE", "ie": "IE", "irl": "IE",
	// India
	"india": "IN", "indian": "IN", "in": "IN", "ind": "IN",
	// Greece
	"greece": "GR", "greek": "GR", "gr": "GR", "grc": "GR",
	// Portugal
	"portugal": "PT", "portuguese": "PT", "pt": "PT", "prt": "PT",
	// Zimbabwe
	"zimbabwe": "ZW", "zimbabwean": "ZW", "zw": "ZW", "zwe": "ZW",
	// Namibia
	"namibia": "NA", "namibian": "NA", "nam": "NA",
	// Montenegro
	"montenegro": "ME", "montenegrin": "ME", "me": "ME", "mne": "ME",
	// Turkey
	"turkey": "TR", "turkish": "TR", "tr": "TR", "tur": "TR",
}

// NormalizeNationality maps a raw nationality string to its canonical token.
// Unknown values are lower-cased and trimmed so substring containment can
// still catch variants the alias table misses.
func NormalizeNationality(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	if n == "" {
		return ""
	}
	if canonical, ok := nationalityAliases[n]; ok {
		return canonical
	}
	return n
}

// NationalityMatches reports whether two raw nationality strings refer to
// the same nationality. After alias normalization, equality or containment
// in either direction counts: "south african" stored against an exclusion
// of "South Africa" must match regardless of literal form.
func NationalityMatches(a, b string) bool {
	na := NormalizeNationality(a)
	nb := NormalizeNationality(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	// Containment only applies between unnormalized literals; canonical
	// two-letter tokens are too short for meaningful substring checks.
	if len(na) > 3 && len(nb) > 3 {
		return strings.Contains(na, nb) || strings.Contains(nb, na)
	}
	return false
}

// NationalityExcluded reports whether any of the candidate's nationality
// values matches any excluded term. The check is order-independent and
// alias-insensitive.
func NationalityExcluded(candidateNationalities, excluded []string) bool {
	for _, nat := range candidateNationalities {
		for _, ex := range excluded {
			if NationalityMatches(nat, ex) {
				return true
			}
		}
	}
	return false
}
