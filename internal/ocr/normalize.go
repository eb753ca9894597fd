package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF     = regexp.MustCompile(`\r\n?`)
	reTabs     = regexp.MustCompile(`\t+`)
	reMultiBlk = regexp.MustCompile(`\n{3,}`)
	reBoxNoise = regexp.MustCompile(`(?m)^[ \t]*[_\-=─━│|]{3,}[ \t]*$`)
	reFormFeed = regexp.MustCompile(`\f`)
)

// Normalize cleans OCR noise while keeping column spacing, which the row
// parsers rely on.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reFormFeed.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, "  ")
	s = reBoxNoise.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlk.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
