package domain

import (
	"strings"
	"unicode"
)

// NormalizeWord prepares word text for storage and comparison:
// trim surrounding whitespace, lowercase, collapse runs of spaces.
func NormalizeWord(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DetectLanguage guesses the language of already-normalized word text when the
// caller omits it. Text made of Latin letters, spaces, hyphens, and apostrophes
// is treated as "en", everything else as "zh". This is a best-effort heuristic
// inherited from the original data set, not linguistic detection.
func DetectLanguage(normalized string) string {
	if normalized == "" {
		return "en"
	}
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r == ' ' || r == '-' || r == '\'':
		case unicode.IsSpace(r):
		default:
			return "zh"
		}
	}
	return "en"
}
