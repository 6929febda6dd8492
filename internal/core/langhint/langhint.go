// Package langhint guesses the response language for advisor and
// what-if text
package langhint

import "unicode"

// Hint returns "ru" when the input's letters are Cyrillic-majority,
// otherwise "en". Non-letter runes are ignored
func Hint(s string) string {
	var cyrillic, total int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if unicode.In(r, unicode.Cyrillic) {
			cyrillic++
		}
	}
	if total > 0 && cyrillic*2 > total {
		return "ru"
	}
	return "en"
}
