package domain

import "testing"

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"lowercases", "Serendipity", "serendipity"},
		{"collapses inner spaces", "give   up", "give up"},
		{"tabs and newlines trimmed", "\tword\n", "word"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"keeps hyphens and apostrophes", "Mother-in-Law's", "mother-in-law's"},
		{"keeps CJK", "漫步", "漫步"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeWord(tt.in); got != tt.want {
				t.Errorf("NormalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"serendipity", "en"},
		{"give up", "en"},
		{"mother-in-law's", "en"},
		{"漫步", "zh"},
		{"résumé", "zh"}, // non-ASCII letters fall through the heuristic
		{"word2", "zh"},
		{"", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := DetectLanguage(tt.in); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
