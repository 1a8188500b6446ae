package taxonomy

import "testing"

func TestVisasForRegion(t *testing.T) {
	cases := []struct {
		region string
		want   []string
	}{
		{"Caribbean", []string{VisaB1B2}},
		{"mediterranean", []string{VisaSchengen}},
		{"Worldwide", []string{VisaB1B2, VisaSchengen}},
		{"Antarctica", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got := VisasForRegion(tc.region)
		if len(got) != len(tc.want) {
			t.Errorf("VisasForRegion(%q) = %v, want %v", tc.region, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("VisasForRegion(%q) = %v, want %v", tc.region, got, tc.want)
			}
		}
	}
}

func TestVisasForRegion_CompositeString(t *testing.T) {
	got := VisasForRegion("Med / Caribbean dual season")
	hasB1B2, hasSchengen := false, false
	for _, v := range got {
		switch v {
		case VisaB1B2:
			hasB1B2 = true
		case VisaSchengen:
			hasSchengen = true
		}
	}
	if !hasB1B2 || !hasSchengen {
		t.Errorf("composite region should infer both documents, got %v", got)
	}
}
