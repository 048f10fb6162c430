// Package parser turns free-form query text into a typed intent with slots
// using ordered, rule-based extractors. Parsing is deterministic pattern
// matching over token sequences; it never fails on malformed input.
package parser

import (
	"strconv"
	"strings"
	"unicode"
)

// Year bounds considered plausible for catalog titles.
const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2100
)

// Tokenize lowercases and trims raw text, then splits it on whitespace.
// Punctuation stays attached to tokens so phrase anchors still match.
func Tokenize(raw string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
}

// CleanToken strips leading/trailing punctuation from a token, keeping
// internal punctuation like hyphens ("sci-fi" survives, "1997," -> "1997").
func CleanToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '_'
	})
}

// IsValidYear reports whether token is exactly four digits and parses to a
// plausible movie year.
func IsValidYear(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	y, err := strconv.Atoi(token)
	if err != nil {
		return false
	}
	return y >= minPlausibleYear && y <= maxPlausibleYear
}

// ParseFloatSafe parses token as a float. It never fails: the second return
// value reports whether a number was found.
func ParseFloatSafe(token string) (float64, bool) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// YearFromDateText extracts a four-digit year from date text such as
// "01-Jan-1995". The last four characters are checked first (the common
// dataset format), then the string is scanned for the first four-digit run.
// Returns 0 when no year is present.
func YearFromDateText(text string) int {
	if text == "" {
		return 0
	}
	if len(text) >= 4 {
		if y, ok := fourDigits(text[len(text)-4:]); ok {
			return y
		}
	}
	for i := 0; i+4 <= len(text); i++ {
		if y, ok := fourDigits(text[i : i+4]); ok {
			return y
		}
	}
	return 0
}

func fourDigits(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return y, true
}
