package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug converts value to a lowercase filesystem-safe token. Accents are
// folded onto their base letters, runs of other characters collapse to a
// single underscore, and an empty result becomes "unknown".
func Slug(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range norm.NFD.String(strings.TrimSpace(value)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		case r == '-' && !pendingSep && b.Len() > 0:
			b.WriteByte('-')
		default:
			pendingSep = true
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
