package label

import (
	"strings"
	"unicode/utf8"
)

const maxFileNameLen = 80

// SafeFileName makes a string usable as a file name: every character in
// <>:"/\|?* becomes an underscore, the result is trimmed and capped, and an
// empty result falls back to "unnamed". Client names are free text from
// Monday, so anything can show up here.
func SafeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, "_ \t\r\n")
	if s == "" {
		return "unnamed"
	}
	if len(s) > maxFileNameLen {
		// Cut on a rune boundary so a multi-byte name never ends mid-rune.
		cut := maxFileNameLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
