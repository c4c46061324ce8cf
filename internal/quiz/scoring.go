package quiz

import "strings"

// Points maps seconds remaining at submission time to a tier score.
// The tiers form a monotonically non-decreasing step function over [0,30].
func Points(secondsLeft int) int {
	switch {
	case secondsLeft >= 26:
		return 15
	case secondsLeft >= 21:
		return 12
	case secondsLeft >= 11:
		return 10
	case secondsLeft >= 6:
		return 8
	case secondsLeft >= 1:
		return 5
	default:
		return 0
	}
}

// NormalizeAnswer trims and lowercases an answer so both sides of a
// comparison share the same form.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswersMatch compares a submitted answer against the expected one,
// case-insensitive and whitespace-trimmed. An empty submission never matches.
func AnswersMatch(submitted, expected string) bool {
	sub := NormalizeAnswer(submitted)
	if sub == "" {
		return false
	}
	return sub == NormalizeAnswer(expected)
}
