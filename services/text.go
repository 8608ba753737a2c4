package services

import "unicode/utf8"

// tooLong reports whether s has more than n characters. Column limits count
// characters, not bytes.
func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

// truncate cuts s to at most n characters on a rune boundary.
func truncate(s string, n int) string {
	if !tooLong(s, n) {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
