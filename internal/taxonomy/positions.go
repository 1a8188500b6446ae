// Package taxonomy holds the crewing vocabularies: position categories,
// license ladders, nationality aliases and region travel-document tables.
// Everything here is checked-in data plus pure lookups so the matching rules
// stay independently testable.
package taxonomy

import "strings"

// Canonical position categories.
const (
	CategoryCaptain    = "captain"
	CategoryOfficer    = "officer"
	CategoryBosun      = "bosun"
	CategoryDeckhand   = "deckhand"
	CategoryEngineer   = "engineer"
	CategoryETO        = "eto"
	CategoryChiefStew  = "chief_stewardess"
	CategoryStewardess = "stewardess"
	CategoryPurser     = "purser"
	CategoryChef       = "chef"
	CategoryCook       = "cook"
)

// categories is the closed set of canonical codes.
var categories = map[string]bool{
	CategoryCaptain:    true,
	CategoryOfficer:    true,
	CategoryBosun:      true,
	CategoryDeckhand:   true,
	CategoryEngineer:   true,
	CategoryETO:        true,
	CategoryChiefStew:  true,
	CategoryStewardess: true,
	CategoryPurser:     true,
	CategoryChef:       true,
	CategoryCook:       true,
}

// positionKeywords maps lower-cased title fragments to a category. Order
// matters: more specific fragments come first so "chief stewardess" wins
// over "stewardess" and "sous chef" over "chef".
var positionKeywords = []struct {
	fragment string
	category string
}{
	{"chief stewardess", CategoryChiefStew},
	{"chief stew", CategoryChiefStew},
	{"head of interior", CategoryChiefStew},
	{"interior manager", CategoryChiefStew},
	{"2nd stewardess", CategoryStewardess},
	{"second stewardess", CategoryStewardess},
	{"stewardess", CategoryStewardess},
	{"steward", CategoryStewardess},
	{"purser", CategoryPurser},
	{"head chef", CategoryChef},
	{"sole chef", CategoryChef},
	{"sous chef", CategoryCook},
	{"crew chef", CategoryCook},
	{"crew cook", CategoryCook},
	{"chef", CategoryChef},
	{"cook", CategoryCook},
	{"chief engineer", CategoryEngineer},
	{"2nd engineer", CategoryEngineer},
	{"second engineer", CategoryEngineer},
	{"3rd engineer", CategoryEngineer},
	{"third engineer", CategoryEngineer},
	{"sole engineer", CategoryEngineer},
	{"engineer", CategoryEngineer},
	{"electro-technical", CategoryETO},
	{"electro technical", CategoryETO},
	{"eto", CategoryETO},
	{"av/it", CategoryETO},
	{"chief officer", CategoryOfficer},
	{"first officer", CategoryOfficer},
	{"1st officer", CategoryOfficer},
	{"2nd officer", CategoryOfficer},
	{"second officer", CategoryOfficer},
	{"third officer", CategoryOfficer},
	{"3rd officer", CategoryOfficer},
	{"chief mate", CategoryOfficer},
	{"mate", CategoryOfficer},
	{"officer", CategoryOfficer},
	{"captain", CategoryCaptain},
	{"master", CategoryCaptain},
	{"skipper", CategoryCaptain},
	{"bosun", CategoryBosun},
	{"boatswain", CategoryBosun},
	{"lead deckhand", CategoryBosun},
	{"deckhand", CategoryDeckhand},
	{"deck hand", CategoryDeckhand},
	{"deck crew", CategoryDeckhand},
}

// IsCategory reports whether code is a known canonical category.
func IsCategory(code string) bool {
	return categories[strings.ToLower(strings.TrimSpace(code))]
}

// NormalizeCategory lower-cases and validates a category code, returning
// the canonical code and whether it is known.
func NormalizeCategory(code string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(code))
	c = strings.ReplaceAll(c, " ", "_")
	return c, categories[c]
}

// InferCategory maps a free-text position title to a canonical category via
// the keyword table. Returns "" when no fragment matches.
func InferCategory(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return ""
	}
	for _, kw := range positionKeywords {
		if strings.Contains(t, kw.fragment) {
			return kw.category
		}
	}
	return ""
}
