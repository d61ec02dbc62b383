package slug

import (
	"regexp"
	"strings"
)

const maxLen = 64

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make joins parts into a lowercase file-name-safe token. Long results are
// cut back to the last dash that fits.
func Make(parts ...string) string {
	s := strings.ToLower(strings.Join(parts, " "))
	s = strings.Trim(nonAlphaNum.ReplaceAllString(s, "-"), "-")
	if len(s) > maxLen {
		s = s[:maxLen]
		if i := strings.LastIndexByte(s, '-'); i > 0 {
			s = s[:i]
		}
	}
	if s == "" {
		return "untitled"
	}
	return s
}
