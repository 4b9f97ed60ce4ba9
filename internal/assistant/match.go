// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assistant

import (
	"strings"
	"unicode"
)

// normalize lower-cases s and reduces it to single-space separated words
// padded with one space at each end, so phrases match on word boundaries.
func normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(fields, " ") + " "
}

// contains reports whether normalized text holds phrase as whole words.
func contains(text, phrase string) bool {
	p := normalize(phrase)
	if p == "  " {
		return false
	}
	return strings.Contains(text, p)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if contains(text, p) {
			return true
		}
	}
	return false
}
