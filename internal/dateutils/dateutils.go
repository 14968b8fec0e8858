// Package dateutils parses the date values found on intake documents.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutDayFirst = "02-01-2006"
)

// ExpiryFormats are the layouts accepted for the expiry field, tried in order.
var ExpiryFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutDayFirst,
}

var spaceRun = regexp.MustCompile(`\s+`)

// CleanDateString trims s and collapses internal whitespace.
func CleanDateString(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ParseDate parses s with the first matching layout in formats and returns
// the time and the layout that matched.
func ParseDate(s string, formats ...string) (time.Time, string, error) {
	if len(formats) == 0 {
		formats = ExpiryFormats
	}
	s = CleanDateString(s)
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", s)
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// NormalizeExpiry rewrites an expiry value to ISO form. When the value does
// not parse, it is returned unchanged with ok false.
func NormalizeExpiry(raw string) (string, bool) {
	t, _, err := ParseDate(raw)
	if err != nil {
		return raw, false
	}
	return ToISODate(t), true
}

var validThruPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\s*[/\-.]\s*(\d{2}|\d{4})$`)

// NormalizeValidThru rewrites a card validity value such as "12-28" or
// "12/2028" to MM/YY. Unrecognised values are returned unchanged.
func NormalizeValidThru(raw string) (string, bool) {
	m := validThruPattern.FindStringSubmatch(CleanDateString(raw))
	if m == nil {
		return raw, false
	}
	year := m[2]
	if len(year) == 4 {
		year = year[2:]
	}
	return m[1] + "/" + year, true
}
