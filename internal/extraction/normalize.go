package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonNumeric = regexp.MustCompile(`[^\d,.]`)
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reTrailingWS = regexp.MustCompile(`(?m)[ \t]+$`)
	rePageMarker = regexp.MustCompile(`^-{2,}\s*Page\s+\d+\s*-{2,}$`)
)

// StripNonNumeric keeps only digits, commas and periods.
func StripNonNumeric(s string) string {
	return reNonNumeric.ReplaceAllString(s, "")
}

// NormalizeText folds full-width characters to ASCII, unifies line endings and
// expands tabs so that anchor patterns see one consistent shape of text.
// Line breaks and page markers are kept.
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, "  ")
	s = reTrailingWS.ReplaceAllString(s, "")
	return s
}

// isPageMarker matches the "--- Page N ---" separators written by the OCR stage.
func isPageMarker(line string) bool {
	return rePageMarker.MatchString(strings.TrimSpace(line))
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
