// Package textnorm canonicalizes text before pattern matching and builds the
// lookup keys used during reconciliation.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var replacer = runes.Map(mapRune)

func mapRune(r rune) rune {
	switch {
	case r >= '\u2010' && r <= '\u2015', r == '\u2212', r == '\ufe58', r == '\ufe63', r == '\uff0d':
		return '-'
	case r == '\u00a0', r == '\u1680', r >= '\u2000' && r <= '\u200a', r == '\u202f', r == '\u205f', r == '\u3000':
		return ' '
	case r == '\u2018', r == '\u2019', r == '\u201a', r == '\u201b', r == '\u2032', r == '\u2035':
		return '\''
	case r == '\u201c', r == '\u201d', r == '\u201e', r == '\u201f', r == '\u2033', r == '\u2036':
		return '"'
	}
	return r
}

// Normalize replaces Unicode dash, space and quote variants with their ASCII
// counterparts. It never drops characters and is idempotent.
func Normalize(s string) string {
	out, _, err := transform.String(replacer, s)
	if err != nil {
		// runes.Map cannot fail on valid input; fall back to a rune walk so
		// the function stays total for malformed UTF-8.
		return strings.Map(mapRune, s)
	}
	return out
}

const customerStripSet = " -_./,"

// CustomerKey normalizes a customer code for matching: upper case with spaces
// and the punctuation set "-_./," removed. "pt abc" and "PT-ABC" share a key.
func CustomerKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(Normalize(s)))
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(customerStripSet, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// OrderKey normalizes an order number: upper case and trimmed.
func OrderKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(Normalize(s)))
}

// CollapseSpaces trims s and collapses every whitespace run to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripSeparators removes whitespace and hyphens.
func StripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// DigitsOnly reports whether s is non-empty and made of ASCII digits.
func DigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
