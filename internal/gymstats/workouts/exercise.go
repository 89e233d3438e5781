package workouts

import (
	"strings"
	"unicode"
)

// NormalizeExercise trims the name and title-cases every whitespace separated word,
// so "  bench PRESS" and "Bench press" both become "Bench Press".
func NormalizeExercise(name string) string {
	name = strings.TrimSpace(name)

	var sb strings.Builder
	sb.Grow(len(name))
	wordStart := true
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			wordStart = true
			sb.WriteRune(r)
		case wordStart:
			wordStart = false
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// SameExercise reports whether the two names refer to the same exercise, ignoring case.
func SameExercise(a, b string) bool {
	return strings.EqualFold(a, b)
}

func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
