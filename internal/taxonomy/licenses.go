package taxonomy

import "strings"

// Two disjoint license ladders exist: one for the command/deck track and one
// for the engineering track. Each is a strictly increasing sequence of
// qualification levels; a license satisfies a requirement only when both sit
// in the same ladder and the held index is >= the required index.

// Deck/command track, ascending.
var deckLadder = []string{
	"YACHTMASTER_OFFSHORE",
	"YACHTMASTER_OCEAN",
	"OOW_3000",
	"CHIEF_MATE_3000",
	"MASTER_500",
	"MASTER_3000",
	"MASTER_UNLIMITED",
}

// Engineering track, ascending.
var engineeringLadder = []string{
	"AEC",
	"MEOL",
	"Y4",
	"Y3",
	"Y2",
	"Y1",
	"EOOW",
	"SECOND_ENGINEER",
	"CHIEF_ENGINEER",
}

// licenseAliases maps raw forms to canonical ladder codes.
var licenseAliases = map[string]string{
	"YACHTMASTER":              "YACHTMASTER_OFFSHORE",
	"RYA_YACHTMASTER":          "YACHTMASTER_OFFSHORE",
	"RYA_YACHTMASTER_OFFSHORE": "YACHTMASTER_OFFSHORE",
	"RYA_YACHTMASTER_OCEAN":    "YACHTMASTER_OCEAN",
	"OOW":                      "OOW_3000",
	"OOW_YACHTS_3000":          "OOW_3000",
	"OOW_YACHT":                "OOW_3000",
	"CHIEF_MATE":               "CHIEF_MATE_3000",
	"CHIEF_MATE_YACHTS":        "CHIEF_MATE_3000",
	"MASTER_YACHTS_500":        "MASTER_500",
	"MASTER_500GT":             "MASTER_500",
	"MASTER_500_GT":            "MASTER_500",
	"MASTER_YACHTS_3000":       "MASTER_3000",
	"MASTER_3000GT":            "MASTER_3000",
	"MASTER_3000_GT":           "MASTER_3000",
	"MASTER_MARINER":           "MASTER_UNLIMITED",
	"APPROVED_ENGINE_COURSE":   "AEC",
	"AEC_1":                    "AEC",
	"MARINE_ENGINE_OPERATOR":   "MEOL",
	"Y4_ENGINEER":              "Y4",
	"Y3_ENGINEER":              "Y3",
	"Y2_ENGINEER":              "Y2",
	"Y1_ENGINEER":              "Y1",
	"EOOW_III_1":               "EOOW",
	"2ND_ENGINEER":             "SECOND_ENGINEER",
	"SECOND_ENGINEER_III_2":    "SECOND_ENGINEER",
	"CHIEF_ENGINEER_III_2":     "CHIEF_ENGINEER",
	"CHIEF_ENGINEER_III_3":     "CHIEF_ENGINEER",
}

// Ladder identifies which license ladder a code belongs to.
type Ladder int

const (
	LadderUnknown Ladder = iota
	LadderDeck
	LadderEngineering
)

var deckIndex = buildIndex(deckLadder)
var engineeringIndex = buildIndex(engineeringLadder)

func buildIndex(ladder []string) map[string]int {
	idx := make(map[string]int, len(ladder))
	for i, code := range ladder {
		idx[code] = i
	}
	return idx
}

// NormalizeLicense canonicalizes a raw license string. Unknown strings are
// returned upper-cased with separators collapsed, so exact-equality matching
// still works for licenses outside the ladders.
func NormalizeLicense(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	code = strings.NewReplacer(" ", "_", "-", "_", "/", "_", "(", "", ")", "", ".", "").Replace(code)
	for strings.Contains(code, "__") {
		code = strings.ReplaceAll(code, "__", "_")
	}
	if canonical, ok := licenseAliases[code]; ok {
		return canonical
	}
	return code
}

// LicenseLadder returns the ladder a canonical license code belongs to and
// its index within that ladder.
func LicenseLadder(code string) (Ladder, int) {
	if i, ok := deckIndex[code]; ok {
		return LadderDeck, i
	}
	if i, ok := engineeringIndex[code]; ok {
		return LadderEngineering, i
	}
	return LadderUnknown, -1
}

// LicenseSatisfies reports whether a held license meets a required one.
// Both arguments are raw strings and are normalized here. Same-ladder
// comparison uses ladder indices; cross-ladder always fails; when either
// side is outside both ladders only exact equality passes.
func LicenseSatisfies(held, required string) bool {
	h := NormalizeLicense(held)
	r := NormalizeLicense(required)
	if h == "" || r == "" {
		return false
	}

	hLadder, hIdx := LicenseLadder(h)
	rLadder, rIdx := LicenseLadder(r)

	if hLadder == LadderUnknown || rLadder == LadderUnknown {
		return h == r
	}
	if hLadder != rLadder {
		return false
	}
	return hIdx >= rIdx
}
