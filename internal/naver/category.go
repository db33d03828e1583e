package naver

import "strings"

// DefaultSection is used when category input cannot be resolved.
// Unrecognized input is never an error.
const DefaultSection = "100"

type sectionLabel struct {
	label string
	code  string
}

// sectionLabels maps known category labels (English and Korean) to the
// portal's opaque section codes. Order matters for loose matching:
// longer labels come first so that short fragments like "it" cannot
// shadow them.
var sectionLabels = []sectionLabel{
	{"it/science", "105"},
	{"생활/문화", "103"},
	{"it/과학", "105"},
	{"politics", "100"},
	{"economy", "101"},
	{"society", "102"},
	{"science", "105"},
	{"culture", "103"},
	{"world", "104"},
	{"life", "103"},
	{"정치", "100"},
	{"경제", "101"},
	{"사회", "102"},
	{"생활", "103"},
	{"문화", "103"},
	{"세계", "104"},
	{"과학", "105"},
	{"it", "105"},
}

// ResolveCategory turns caller input into a section code. Exact 3-digit
// numeric codes pass through unchanged and always win over label
// matching; known labels resolve via the fixed table; a loose substring
// match is accepted for near-miss input; anything else falls back to
// the default section.
func ResolveCategory(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return DefaultSection
	}

	if len(s) == 3 && isDigits(s) {
		return s
	}

	lower := strings.ToLower(s)
	for _, sl := range sectionLabels {
		if lower == sl.label {
			return sl.code
		}
	}
	for _, sl := range sectionLabels {
		if strings.Contains(lower, sl.label) {
			return sl.code
		}
	}

	return DefaultSection
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
