package slug

import (
	"strings"
	"unicode"
)

const maxLen = 48

// Make lowercases input and collapses every run of non-alphanumerics into a
// single dash. The result is capped so it stays usable inside identifiers and
// file names.
func Make(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.Trim(b.String(), "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
