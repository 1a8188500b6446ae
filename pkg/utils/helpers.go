package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateMatchProcessID generates a process ID for background matching tasks
func GenerateMatchProcessID() string {
	return "match_" + uuid.New().String()
}

// GenerateJobRankProcessID generates a process ID for background job ranking tasks
func GenerateJobRankProcessID() string {
	return "jobrank_" + uuid.New().String()
}

// FormatDuration formats a duration to a human-readable string
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Contains checks if a string slice contains a specific string
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// UnionStrings merges slices into a single deduplicated slice, preserving
// first-seen order. Comparison is exact; normalize before calling.
func UnionStrings(slices ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, slice := range slices {
		for _, s := range slice {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// RemoveStrings returns slice without any of the items in remove.
func RemoveStrings(slice, remove []string) []string {
	if len(remove) == 0 {
		return slice
	}
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[r] = true
	}
	out := make([]string, 0, len(slice))
	for _, s := range slice {
		if !drop[s] {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeCode upper-cases and trims a certification/visa/license code and
// collapses internal whitespace and separators to underscores.
func NormalizeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_", ".", "").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// NormalizeText lower-cases and trims free text for comparison.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetStringOrDefault returns the value if not empty, otherwise returns the default
func GetStringOrDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

// SplitSentences breaks text into sentences on terminal punctuation. A
// period between digits is a decimal point, not a boundary. Good enough for
// sanitizing short AI summaries; not a general tokenizer.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var current strings.Builder
	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
