package respond

import (
	"fmt"
	"strings"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
)

// intentHints are the fixed lead phrases used when describing a query.
var intentHints = map[models.Intent]string{
	models.IntentGetDetails:        "details",
	models.IntentSimilarMovies:     "similar titles",
	models.IntentTopN:              "top picks",
	models.IntentRecommendByFilter: "recommendations",
}

// BuildContext derives the compact semantic summary of a result set: the
// filters restated as text, a typed time window and rating bounds taken from
// slots (never inferred from results), the true result count, and a capped
// title preview.
func BuildContext(rs *models.ResultSet, pcfg config.PipelineConfig) *models.Context {
	slots := rs.Slots
	cctx := &models.Context{
		TimeWindow:   deriveTimeWindow(slots),
		RatingBounds: deriveRatingBounds(slots),
		ResultCount:  rs.Found,
	}

	if rs.Intent == models.IntentGetDetails || rs.Intent == models.IntentSimilarMovies {
		cctx.SeedTitle = slots.Title
	}

	preview := pcfg.TitlePreview
	if preview <= 0 {
		preview = 5
	}
	for i, m := range rs.Results {
		if i >= preview {
			break
		}
		cctx.Titles = append(cctx.Titles, m.Title)
	}

	cctx.FiltersText = buildFiltersText(rs.Intent, slots, cctx)
	return cctx
}

// buildFiltersText concatenates, in fixed order: the intent hint, the genre
// list, the time-window phrase, the rating phrase, and the seed title.
func buildFiltersText(intent models.Intent, slots models.Slots, cctx *models.Context) string {
	parts := []string{intentHints[intent]}

	if len(slots.Genres) > 0 {
		parts = append(parts, "for "+strings.Join(slots.Genres, ", ")+" movies")
	}
	if tw := cctx.TimeWindow; tw != nil {
		parts = append(parts, timeWindowPhrase(tw))
	}
	if rb := cctx.RatingBounds; rb != nil {
		parts = append(parts, ratingPhrase(rb))
	}
	if cctx.SeedTitle != "" {
		parts = append(parts, fmt.Sprintf("for %q", cctx.SeedTitle))
	}
	return strings.Join(parts, " ")
}

func timeWindowPhrase(tw *models.TimeWindow) string {
	switch tw.Kind {
	case models.TimeWindowIn:
		return fmt.Sprintf("from %d", tw.From)
	case models.TimeWindowSince:
		return fmt.Sprintf("since %d", tw.From)
	case models.TimeWindowUntil:
		return fmt.Sprintf("until %d", tw.To)
	case models.TimeWindowBetween:
		return fmt.Sprintf("between %d and %d", tw.From, tw.To)
	}
	return ""
}

func ratingPhrase(rb *models.RatingBounds) string {
	switch rb.Cmp {
	case models.RatingCmpEq:
		return fmt.Sprintf("rated exactly %.1f", *rb.Value)
	case models.RatingCmpGe:
		return fmt.Sprintf("rated at least %.1f", *rb.Value)
	case models.RatingCmpLe:
		return fmt.Sprintf("rated at most %.1f", *rb.Value)
	case models.RatingCmpBetween:
		return fmt.Sprintf("rated between %.1f and %.1f", *rb.Low, *rb.High)
	}
	return ""
}

// deriveTimeWindow maps year slots to a typed window. An explicit range wins;
// since and until together also collapse into a between window.
func deriveTimeWindow(slots models.Slots) *models.TimeWindow {
	switch {
	case slots.YearFrom != 0 && slots.YearTo != 0:
		return &models.TimeWindow{Kind: models.TimeWindowBetween, From: slots.YearFrom, To: slots.YearTo}
	case slots.SinceYear != 0 && slots.UntilYear != 0:
		return &models.TimeWindow{Kind: models.TimeWindowBetween, From: slots.SinceYear, To: slots.UntilYear}
	case slots.Year != 0:
		return &models.TimeWindow{Kind: models.TimeWindowIn, From: slots.Year}
	case slots.SinceYear != 0:
		return &models.TimeWindow{Kind: models.TimeWindowSince, From: slots.SinceYear}
	case slots.UntilYear != 0:
		return &models.TimeWindow{Kind: models.TimeWindowUntil, To: slots.UntilYear}
	}
	return nil
}

// deriveRatingBounds mirrors the rating comparator taxonomy from slots.
func deriveRatingBounds(slots models.Slots) *models.RatingBounds {
	if !slots.HasRatingFilter() {
		return nil
	}
	switch slots.RatingCmp {
	case models.RatingCmpBetween:
		return &models.RatingBounds{Cmp: models.RatingCmpBetween, Low: slots.MinRating, High: slots.MaxRating}
	case models.RatingCmpLe:
		return &models.RatingBounds{Cmp: models.RatingCmpLe, Value: slots.MaxRating}
	case models.RatingCmpEq:
		return &models.RatingBounds{Cmp: models.RatingCmpEq, Value: slots.MinRating}
	default:
		return &models.RatingBounds{Cmp: models.RatingCmpGe, Value: slots.MinRating}
	}
}
