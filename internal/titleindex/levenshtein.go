package titleindex

import (
	"sort"
	"strings"
)

// maxSuggestions bounds how many alternate titles Suggest returns.
const maxSuggestions = 3

// Suggest returns up to three catalog titles closest to the phrase by edit
// distance over the lowercased title with its year suffix stripped. Ties break
// toward better-known titles (more ratings), then alphabetically.
func (t *TitleIndex) Suggest(phrase string) []string {
	needle := strings.ToLower(strings.TrimSpace(phrase))
	if needle == "" {
		return nil
	}

	t.mu.RLock()
	entries := t.entries
	t.mu.RUnlock()

	type scored struct {
		title      string
		distance   int
		numRatings int
	}
	var candidates []scored
	for _, e := range entries {
		base := strings.ToLower(stripYearSuffix(e.Title))
		d := LevenshteinDistance(needle, base)
		if d > suggestionThreshold(needle, base) {
			continue
		}
		candidates = append(candidates, scored{title: e.Title, distance: d, numRatings: e.NumRatings})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		if candidates[i].numRatings != candidates[j].numRatings {
			return candidates[i].numRatings > candidates[j].numRatings
		}
		return candidates[i].title < candidates[j].title
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.title
	}
	return out
}

// suggestionThreshold scales the allowed edit distance with the shorter
// string so short titles do not match everything.
func suggestionThreshold(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return n / 3
	}
}

// stripYearSuffix removes a trailing " (1995)" style year from a title.
func stripYearSuffix(title string) string {
	title = strings.TrimSpace(title)
	if !strings.HasSuffix(title, ")") {
		return title
	}
	i := strings.LastIndex(title, "(")
	if i <= 0 {
		return title
	}
	inner := title[i+1 : len(title)-1]
	if len(inner) != 4 {
		return title
	}
	for _, r := range inner {
		if r < '0' || r > '9' {
			return title
		}
	}
	return strings.TrimSpace(title[:i])
}

// LevenshteinDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string
// into another. Pure function, Unicode-aware.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	// Two rows are enough.
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			curr[j] = minOfThree(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

func minOfThree(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
