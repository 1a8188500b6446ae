package utils

import (
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation",
			text: "Great attitude. Strong references! Available now?",
			want: []string{"Great attitude.", "Strong references!", "Available now?"},
		},
		{
			name: "decimal point is not a boundary",
			text: "7.5 years on charter yachts. Holds a 3.1 average review.",
			want: []string{"7.5 years on charter yachts.", "Holds a 3.1 average review."},
		},
		{
			name: "trailing fragment without punctuation",
			text: "Solid deckhand. No tender experience yet",
			want: []string{"Solid deckhand.", "No tender experience yet"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
