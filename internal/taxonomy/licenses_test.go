package taxonomy

import "testing"

func TestNormalizeLicense(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Master 3000 GT", "MASTER_3000"},
		{"master-3000gt", "MASTER_3000"},
		{"OOW (Yachts 3000)", "OOW_3000"},
		{"oow", "OOW_3000"},
		{"RYA Yachtmaster Offshore", "YACHTMASTER_OFFSHORE"},
		{"Chief Engineer III/2", "CHIEF_ENGINEER"},
		{"2nd Engineer", "SECOND_ENGINEER"},
		{"Y3 Engineer", "Y3"},
		{"AEC 1", "AEC"},
		{"Some Unknown Ticket", "SOME_UNKNOWN_TICKET"},
	}

	for _, tc := range cases {
		if got := NormalizeLicense(tc.raw); got != tc.want {
			t.Errorf("NormalizeLicense(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestLicenseSatisfies_SameLadder(t *testing.T) {
	cases := []struct {
		held     string
		required string
		want     bool
	}{
		// Deck ladder, held above requirement
		{"Master 3000 GT", "Master 500 GT", true},
		{"Master Unlimited", "OOW 3000", true},
		// Exact level
		{"OOW 3000", "OOW 3000", true},
		// Held below requirement
		{"Yachtmaster Offshore", "Master 500 GT", false},
		{"OOW 3000", "Chief Mate 3000", false},
		// Engineering ladder
		{"Chief Engineer", "Y2", true},
		{"Y4", "Y2", false},
		{"Y1", "Y3", true},
		{"AEC", "MEOL", false},
	}

	for _, tc := range cases {
		if got := LicenseSatisfies(tc.held, tc.required); got != tc.want {
			t.Errorf("LicenseSatisfies(%q, %q) = %v, want %v", tc.held, tc.required, got, tc.want)
		}
	}
}

func TestLicenseSatisfies_CrossLadderNeverPasses(t *testing.T) {
	deck := []string{"Yachtmaster Offshore", "OOW 3000", "Master 3000", "Master Unlimited"}
	eng := []string{"AEC", "Y3", "Y1", "Chief Engineer"}

	for _, d := range deck {
		for _, e := range eng {
			if LicenseSatisfies(d, e) {
				t.Errorf("deck license %q must not satisfy engineering requirement %q", d, e)
			}
			if LicenseSatisfies(e, d) {
				t.Errorf("engineering license %q must not satisfy deck requirement %q", e, d)
			}
		}
	}
}

func TestLicenseSatisfies_UnknownFallsBackToEquality(t *testing.T) {
	if !LicenseSatisfies("Commercially Endorsed Day Skipper", "commercially endorsed day skipper") {
		t.Error("identical unknown licenses should satisfy by exact equality")
	}
	if LicenseSatisfies("Day Skipper", "Master 500 GT") {
		t.Error("unknown license must not satisfy a ladder requirement")
	}
	if LicenseSatisfies("Master 3000 GT", "Day Skipper") {
		t.Error("ladder license must not satisfy an unknown requirement")
	}
}

func TestLicenseLaddersStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(deckLadder); i++ {
		if !LicenseSatisfies(deckLadder[i], deckLadder[i-1]) {
			t.Errorf("deck ladder not increasing at %q", deckLadder[i])
		}
		if LicenseSatisfies(deckLadder[i-1], deckLadder[i]) {
			t.Errorf("deck ladder inverted at %q", deckLadder[i-1])
		}
	}
	for i := 1; i < len(engineeringLadder); i++ {
		if !LicenseSatisfies(engineeringLadder[i], engineeringLadder[i-1]) {
			t.Errorf("engineering ladder not increasing at %q", engineeringLadder[i])
		}
	}
}
