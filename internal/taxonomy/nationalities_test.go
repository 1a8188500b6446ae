package taxonomy

import "testing"

func TestNormalizeNationality(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"South Africa", "ZA"},
		{"south african", "ZA"},
		{"ZA", "ZA"},
		{"Filipino", "PH"},
		{"Philippines", "PH"},
		{"British", "GB"},
		{"UK", "GB"},
		{"Kiwi", "NZ"},
		{"Martian", "martian"}, // unknown falls back to lower-cased literal
	}

	for _, tc := range cases {
		if got := NormalizeNationality(tc.raw); got != tc.want {
			t.Errorf("NormalizeNationality(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNationalityMatches_AliasForms(t *testing.T) {
	// All alias forms of the same nationality must match each other,
	// whichever literal the store happened to hold.
	forms := []string{"South Africa", "south african", "ZA", "ZAF"}
	for _, a := range forms {
		for _, b := range forms {
			if !NationalityMatches(a, b) {
				t.Errorf("NationalityMatches(%q, %q) = false, want true", a, b)
			}
		}
	}

	if NationalityMatches("South African", "Filipino") {
		t.Error("distinct nationalities must not match")
	}
}

func TestNationalityMatches_Containment(t *testing.T) {
	// Unknown literals still match by containment in either direction.
	if !NationalityMatches("citizen of freedonia", "freedonia") {
		t.Error("containment match expected for unknown literals")
	}
	if !NationalityMatches("freedonia", "citizen of freedonia") {
		t.Error("containment must be direction-independent")
	}
}

func TestNationalityExcluded(t *testing.T) {
	cases := []struct {
		name          string
		nationalities []string
		excluded      []string
		want          bool
	}{
		{"primary hit", []string{"South African"}, []string{"South Africa"}, true},
		{"secondary hit", []string{"British", "ZA"}, []string{"south african"}, true},
		{"no hit", []string{"Filipino"}, []string{"South Africa"}, false},
		{"empty exclusions", []string{"Filipino"}, nil, false},
		{"empty nationalities", nil, []string{"South Africa"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NationalityExcluded(tc.nationalities, tc.excluded); got != tc.want {
				t.Errorf("NationalityExcluded(%v, %v) = %v, want %v", tc.nationalities, tc.excluded, got, tc.want)
			}
		})
	}
}
