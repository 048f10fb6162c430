package respond

import (
	"fmt"
	"strings"

	"github.com/hyperjump/eiga/internal/models"
)

// Render produces the final conversational answer from the fact sheet and
// edge flags. When no_results is set, the deterministic fallback sentence is
// rendered regardless of every other flag.
func Render(sheet *models.FactSheet, flags *models.EdgeFlags, intent models.Intent) models.Answer {
	if flags.NoResults {
		return models.Answer{Text: renderNothingFound(sheet, flags), Intent: intent}
	}

	var text string
	switch intent {
	case models.IntentGetDetails:
		text = renderDetails(sheet, flags)
	case models.IntentSimilarMovies:
		text = renderSimilar(sheet, flags)
	case models.IntentTopN, models.IntentRecommendByFilter:
		text = renderList(sheet, flags)
	default:
		text = renderList(sheet, flags)
	}
	return models.Answer{Text: text, Intent: intent}
}

// renderNothingFound is the absolute-priority fallback.
func renderNothingFound(sheet *models.FactSheet, flags *models.EdgeFlags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find anything for %s.", sheet.ContextLine)
	if len(flags.Suggestions) > 0 {
		fmt.Fprintf(&b, " You could %s.", naturalJoin(flags.Suggestions, "or"))
	}
	return b.String()
}

func renderDetails(sheet *models.FactSheet, flags *models.EdgeFlags) string {
	f := sheet.Facts[0]
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) is rated %s", f.Title, f.Year, f.Rating)
	if f.Genres != placeholderGenres {
		fmt.Fprintf(&b, " and spans %s", strings.ReplaceAll(f.Genres, "/", ", "))
	}
	b.WriteString(".")
	appendCaveats(&b, flags)
	return b.String()
}

func renderSimilar(sheet *models.FactSheet, flags *models.EdgeFlags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For %s I found %s: %s.",
		sheet.ContextLine, countPhrase(sheet), naturalJoin(factBriefs(sheet), "and"))
	appendCaveats(&b, flags)
	return b.String()
}

func renderList(sheet *models.FactSheet, flags *models.EdgeFlags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %s for %s: %s.",
		countPhrase(sheet), sheet.ContextLine, naturalJoin(factBriefs(sheet), "and"))
	appendCaveats(&b, flags)
	return b.String()
}

// countPhrase states the true count and, when fewer facts are displayed, how
// many are shown.
func countPhrase(sheet *models.FactSheet) string {
	found := sheet.FoundCount
	shown := len(sheet.Facts)
	noun := "matches"
	if found == 1 {
		noun = "match"
	}
	if shown < found {
		return fmt.Sprintf("%d %s (showing %d)", found, noun, shown)
	}
	return fmt.Sprintf("%d %s", found, noun)
}

func factBriefs(sheet *models.FactSheet) []string {
	briefs := make([]string, len(sheet.Facts))
	for i, f := range sheet.Facts {
		briefs[i] = fmt.Sprintf("%s (%s, %s)", f.Title, f.Year, f.Rating)
	}
	return briefs
}

func appendCaveats(b *strings.Builder, flags *models.EdgeFlags) {
	if flags.SampledFrom != nil {
		b.WriteString(" I'm showing a diverse sample across genres.")
	}
	if flags.SparseQuality {
		b.WriteString(" Some of these have very few ratings, so the scores are low-confidence.")
	}
	if flags.ThinMetadata {
		b.WriteString(" Some entries are missing year or genre data.")
	}
	if flags.TiesPossible {
		b.WriteString(" The top results tie on score, so this ordering isn't the only valid one.")
	}
}

// naturalJoin joins items with Oxford-style rules: one item stands alone, two
// join with the conjunction, three or more use commas plus a final ", and".
func naturalJoin(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", " + conj + " " + items[len(items)-1]
	}
}
