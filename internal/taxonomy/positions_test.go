package taxonomy

import "testing"

func TestInferCategory(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"First Officer", CategoryOfficer},
		{"Chief Officer / Relief Captain", CategoryOfficer}, // first fragment wins
		{"Captain", CategoryCaptain},
		{"Relief Master", CategoryCaptain},
		{"2nd Engineer", CategoryEngineer},
		{"Sole Engineer", CategoryEngineer},
		{"ETO", CategoryETO},
		{"Chief Stewardess", CategoryChiefStew},
		{"2nd Stewardess", CategoryStewardess},
		{"Junior Steward", CategoryStewardess},
		{"Head Chef", CategoryChef},
		{"Sous Chef", CategoryCook},
		{"Lead Deckhand", CategoryBosun},
		{"Deckhand", CategoryDeckhand},
		{"Purser", CategoryPurser},
		{"Marketing Manager", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := InferCategory(tc.title); got != tc.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got, ok := NormalizeCategory("Chief Stewardess"); !ok || got != CategoryChiefStew {
		t.Errorf("NormalizeCategory(Chief Stewardess) = %q, %v", got, ok)
	}
	if _, ok := NormalizeCategory("astronaut"); ok {
		t.Error("unknown category should not normalize")
	}
}
