package parser

import (
	"strconv"
	"strings"

	"github.com/hyperjump/eiga/internal/models"
)

// extractCount looks for a "top N" phrase. Returns the parsed limit and
// whether a count phrase was present at all. "top" without a usable quantity
// yields the default limit.
func (p *Parser) extractCount(tokens []string) (int, bool) {
	for i, tok := range tokens {
		if CleanToken(tok) != "top" {
			continue
		}
		if i+1 >= len(tokens) {
			return p.defaultLimit, true
		}
		next := CleanToken(tokens[i+1])
		if n, err := strconv.Atoi(next); err == nil {
			return p.clampLimit(n), true
		}
		if n, ok := p.numberWords[next]; ok {
			return p.clampLimit(n), true
		}
		return p.defaultLimit, true
	}
	return 0, false
}

func (p *Parser) clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > p.maxLimit {
		return p.maxLimit
	}
	return n
}

// extractYears fills the year slots from token patterns: "since Y",
// "until Y" / "before Y", hyphen ranges, "Y to Z", "between Y and Z", and a
// single bare year. Range endpoints are normalized so year_from <= year_to.
func extractYears(tokens []string, slots *models.Slots) {
	cleaned := make([]string, len(tokens))
	for i, t := range tokens {
		cleaned[i] = CleanToken(t)
	}

	for i, tok := range cleaned {
		if tok == "since" && i+1 < len(cleaned) && IsValidYear(cleaned[i+1]) {
			slots.SinceYear = mustAtoi(cleaned[i+1])
		}
		if (tok == "until" || tok == "before") && i+1 < len(cleaned) && IsValidYear(cleaned[i+1]) {
			slots.UntilYear = mustAtoi(cleaned[i+1])
		}
	}

	// Hyphenated range like "2010-2015".
	for _, tok := range cleaned {
		if !strings.Contains(tok, "-") {
			continue
		}
		parts := strings.Split(tok, "-")
		if len(parts) == 2 && IsValidYear(parts[0]) && IsValidYear(parts[1]) {
			slots.YearFrom, slots.YearTo = orderYears(mustAtoi(parts[0]), mustAtoi(parts[1]))
		}
	}

	// "2010 to 2015".
	for i := 0; i+2 < len(cleaned); i++ {
		if IsValidYear(cleaned[i]) && cleaned[i+1] == "to" && IsValidYear(cleaned[i+2]) {
			slots.YearFrom, slots.YearTo = orderYears(mustAtoi(cleaned[i]), mustAtoi(cleaned[i+2]))
		}
	}

	// "between 2015 and 2020".
	for i := 0; i+3 < len(cleaned); i++ {
		if cleaned[i] == "between" && IsValidYear(cleaned[i+1]) && cleaned[i+2] == "and" && IsValidYear(cleaned[i+3]) {
			slots.YearFrom, slots.YearTo = orderYears(mustAtoi(cleaned[i+1]), mustAtoi(cleaned[i+3]))
		}
	}

	// A single bare year ("in 1997", "from 1997") only counts when no
	// bound or range already claimed it.
	if slots.YearFrom == 0 && slots.YearTo == 0 && slots.SinceYear == 0 && slots.UntilYear == 0 {
		var years []int
		for _, tok := range cleaned {
			if IsValidYear(tok) {
				years = append(years, mustAtoi(tok))
			}
		}
		if len(years) == 1 {
			slots.Year = years[0]
		}
	}
}

func orderYears(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// extractRating fills the rating slots. Patterns anchored on "rating"/"rated"
// take priority, then comparator symbols, then "min N", then "N stars".
// The first matching pattern wins; values are clamped to [0, 5].
func (p *Parser) extractRating(tokens []string, slots *models.Slots) {
	cleaned := make([]string, len(tokens))
	for i, t := range tokens {
		cleaned[i] = CleanToken(t)
	}

	for i, tok := range cleaned {
		if tok != "rating" && tok != "rated" {
			continue
		}
		// "rating at least N" / "rating at most N"
		if i+3 < len(cleaned) && cleaned[i+1] == "at" {
			if v, ok := ParseFloatSafe(cleaned[i+3]); ok {
				switch cleaned[i+2] {
				case "least":
					setMinRating(slots, clampRating(v))
					return
				case "most":
					setMaxRating(slots, clampRating(v))
					return
				}
			}
		}
		// "rating greater than N" / "rating less than N"
		if i+3 < len(cleaned) && cleaned[i+2] == "than" {
			if v, ok := ParseFloatSafe(cleaned[i+3]); ok {
				switch cleaned[i+1] {
				case "greater", "higher", "more":
					setMinRating(slots, clampRating(v))
					return
				case "less", "lower":
					setMaxRating(slots, clampRating(v))
					return
				}
			}
		}
		// "rating between A and B"
		if i+4 < len(cleaned) && cleaned[i+1] == "between" && cleaned[i+3] == "and" {
			lo, okLo := ParseFloatSafe(cleaned[i+2])
			hi, okHi := ParseFloatSafe(cleaned[i+4])
			if okLo && okHi {
				if lo > hi {
					lo, hi = hi, lo
				}
				low, high := clampRating(lo), clampRating(hi)
				slots.MinRating = &low
				slots.MaxRating = &high
				slots.RatingCmp = models.RatingCmpBetween
				return
			}
		}
		// Bare "rating N"
		if i+1 < len(cleaned) {
			if v, ok := ParseFloatSafe(cleaned[i+1]); ok {
				setMinRating(slots, clampRating(v))
				return
			}
		}
	}

	// Comparator symbols: ">= 4", "≥ 4", "<= 3", "≤ 3".
	for i, tok := range cleaned {
		if i+1 >= len(cleaned) {
			break
		}
		v, ok := ParseFloatSafe(cleaned[i+1])
		if !ok {
			continue
		}
		switch tok {
		case ">=", "≥":
			setMinRating(slots, clampRating(v))
			return
		case "<=", "≤":
			setMaxRating(slots, clampRating(v))
			return
		}
	}

	// "min 4" / "minimum 4".
	for i, tok := range cleaned {
		if (tok == "min" || tok == "minimum") && i+1 < len(cleaned) {
			if v, ok := ParseFloatSafe(cleaned[i+1]); ok {
				setMinRating(slots, clampRating(v))
				return
			}
		}
	}

	// "N stars": a lower bound by default policy, exact when configured.
	for i, tok := range cleaned {
		if (tok == "stars" || tok == "star") && i > 0 {
			if v, ok := ParseFloatSafe(cleaned[i-1]); ok {
				val := clampRating(v)
				if p.starsMinimum {
					setMinRating(slots, val)
				} else {
					slots.MinRating = &val
					slots.RatingCmp = models.RatingCmpEq
				}
				return
			}
		}
	}
}

func setMinRating(slots *models.Slots, v float64) {
	slots.MinRating = &v
	slots.RatingCmp = models.RatingCmpGe
}

func setMaxRating(slots *models.Slots, v float64) {
	slots.MaxRating = &v
	slots.RatingCmp = models.RatingCmpLe
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// extractGenres matches the genre vocabulary against the token stream.
// Multi-word aliases are matched greedily before single words; matches are
// deduplicated with first-occurrence order preserved.
func (p *Parser) extractGenres(tokens []string) []string {
	cleaned := make([]string, len(tokens))
	for i, t := range tokens {
		cleaned[i] = CleanToken(t)
	}

	var found []string
	seen := make(map[string]bool)
	for i := 0; i < len(cleaned); i++ {
		matched := 0
		for n := p.maxGenreWords; n >= 1; n-- {
			if i+n > len(cleaned) {
				continue
			}
			phrase := strings.Join(cleaned[i:i+n], " ")
			if canonical, ok := p.genres[phrase]; ok {
				if !seen[canonical] {
					seen[canonical] = true
					found = append(found, canonical)
				}
				matched = n
				break
			}
		}
		if matched > 1 {
			i += matched - 1
		}
	}
	return found
}

// Title phrase anchors in priority order. Quoted text is checked first and
// wins over all anchors.
var titleAnchors = []string{
	"tell me about ",
	"details of ",
	"who directed ",
	"who starred in ",
	"who starred ",
	"similar to ",
	"about ",
	"like ",
}

// extractTitle pulls a movie title candidate out of the raw text, preserving
// the original casing. Quoted substrings take precedence; otherwise the text
// after the first matching anchor phrase is captured and trimmed of trailing
// filler words. Returns "" when nothing looks like a title.
func (p *Parser) extractTitle(raw string) string {
	raw = strings.TrimSpace(raw)

	for _, q := range []byte{'"', '\''} {
		i := strings.IndexByte(raw, q)
		if i < 0 {
			continue
		}
		j := strings.IndexByte(raw[i+1:], q)
		if j > 0 {
			return strings.TrimSpace(raw[i+1 : i+1+j])
		}
	}

	lower := strings.ToLower(raw)
	for _, anchor := range titleAnchors {
		pos := strings.Index(lower, anchor)
		if pos < 0 {
			continue
		}
		candidate := raw[pos+len(anchor):]
		return p.trimTitle(candidate)
	}
	return ""
}

// trimTitle strips trailing punctuation and filler words from a title phrase.
func (p *Parser) trimTitle(candidate string) string {
	candidate = strings.TrimRight(strings.TrimSpace(candidate), "?!.,;")
	words := strings.Fields(candidate)
	for len(words) > 0 {
		last := strings.ToLower(CleanToken(words[len(words)-1]))
		if _, isFiller := p.filler[last]; !isFiller {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
