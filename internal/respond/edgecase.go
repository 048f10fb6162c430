package respond

import (
	"fmt"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
)

// Edge note tags, machine readable.
const (
	noteNoResults     = "no_results"
	noteOverflow      = "overflow"
	noteSparseQuality = "sparse_quality"
	noteSeedMissing   = "seed_missing"
	noteThinMetadata  = "thin_metadata"
	noteTiesPossible  = "ties_possible"
)

const maxSuggestions = 3

// ApplyEdgeCases inspects the result set and context, derives the edge flags
// independently, and adjusts the capped results in place: overflow triggers
// genre round-robin diversification from the full pool, sparse quality
// demotes below-floor rows without ever emptying a non-empty set.
func ApplyEdgeCases(rs *models.ResultSet, cctx *models.Context, pcfg config.PipelineConfig) *models.EdgeFlags {
	flags := &models.EdgeFlags{}
	cap := capForIntent(rs.Intent, rs.Slots, pcfg)

	flags.NoResults = cctx.ResultCount == 0
	flags.Overflow = cctx.ResultCount > cap
	flags.SparseQuality = sparseQuality(rs.Results, pcfg.QualityFloor)
	flags.SeedMissing = seedMissing(rs)
	flags.ThinMetadata = thinMetadata(rs.Results)
	flags.TiesPossible = tiesPossible(rs)

	if flags.Overflow && pcfg.DiversifyOrDefault() {
		rs.Results = diversify(rs.Pool, cap)
		flags.SampledFrom = &models.SampledFrom{
			Total:  cctx.ResultCount,
			Used:   len(rs.Results),
			Method: "genre_round_robin",
		}
	}
	if flags.SparseQuality {
		rs.Results = demoteBelowFloor(rs.Results, pcfg.QualityFloor)
	}

	flags.EdgeNotes = collectNotes(flags)
	flags.Suggestions = buildSuggestions(flags, rs.Slots)
	return flags
}

func collectNotes(flags *models.EdgeFlags) []string {
	var notes []string
	if flags.NoResults {
		notes = append(notes, noteNoResults)
	}
	if flags.Overflow {
		notes = append(notes, noteOverflow)
	}
	if flags.SparseQuality {
		notes = append(notes, noteSparseQuality)
	}
	if flags.SeedMissing {
		notes = append(notes, noteSeedMissing)
	}
	if flags.ThinMetadata {
		notes = append(notes, noteThinMetadata)
	}
	if flags.TiesPossible {
		notes = append(notes, noteTiesPossible)
	}
	return notes
}

// buildSuggestions emits up to three alternate-query hints keyed to the
// filters that likely caused the condition.
func buildSuggestions(flags *models.EdgeFlags, slots models.Slots) []string {
	var out []string
	if flags.NoResults {
		if slots.HasYearFilter() {
			out = append(out, "try a wider year range")
		}
		if slots.MinRating != nil {
			out = append(out, "try a lower minimum rating")
		}
		if len(slots.Genres) > 1 {
			out = append(out, "try fewer genres")
		} else if len(slots.Genres) == 1 {
			out = append(out, fmt.Sprintf("try a genre other than %s", slots.Genres[0]))
		}
		if len(out) == 0 && !flags.SeedMissing {
			out = append(out, "try different wording")
		}
	}
	if flags.SeedMissing {
		out = append(out, "check the movie title spelling")
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// sparseQuality is true when a majority of results sit below the quality
// floor of rating counts.
func sparseQuality(results []models.Movie, floor int) bool {
	if len(results) == 0 || floor <= 0 {
		return false
	}
	below := 0
	for _, m := range results {
		if m.NumRatings < floor {
			below++
		}
	}
	return below*2 > len(results)
}

func seedMissing(rs *models.ResultSet) bool {
	if rs.Intent != models.IntentSimilarMovies && rs.Intent != models.IntentGetDetails {
		return false
	}
	return rs.Slots.Title != "" && rs.Found == 0
}

// thinMetadata is true when a majority of results lack the year or genre
// data a confident answer needs.
func thinMetadata(results []models.Movie) bool {
	if len(results) == 0 {
		return false
	}
	thin := 0
	for _, m := range results {
		if m.Year == nil || len(m.Genres) == 0 {
			thin++
		}
	}
	return thin*2 > len(results)
}

// tiesPossible is true when the top two results share their sort keys.
func tiesPossible(rs *models.ResultSet) bool {
	if len(rs.Results) < 2 {
		return false
	}
	a, b := &rs.Results[0], &rs.Results[1]
	if rs.Intent == models.IntentSimilarMovies {
		if a.Overlap != b.Overlap {
			return false
		}
	}
	switch {
	case a.Rating == nil && b.Rating == nil:
		return true
	case a.Rating == nil || b.Rating == nil:
		return false
	}
	return *a.Rating == *b.Rating
}

// diversify re-selects up to cap results from the full pool by round-robin
// over primary genre buckets, preserving within-bucket order. It changes
// which items survive the cap, never how many were found.
func diversify(pool []models.Movie, cap int) []models.Movie {
	if len(pool) <= cap {
		return pool
	}

	var order []string
	buckets := make(map[string][]models.Movie)
	for _, m := range pool {
		g := m.PrimaryGenre()
		if _, ok := buckets[g]; !ok {
			order = append(order, g)
		}
		buckets[g] = append(buckets[g], m)
	}

	out := make([]models.Movie, 0, cap)
	for round := 0; len(out) < cap; round++ {
		took := false
		for _, g := range order {
			if round < len(buckets[g]) {
				out = append(out, buckets[g][round])
				took = true
				if len(out) == cap {
					break
				}
			}
		}
		if !took {
			break
		}
	}
	return out
}

// demoteBelowFloor reorders results so rows at or above the quality floor
// come first, preserving relative order. Nothing is dropped, so a non-empty
// set never becomes empty here.
func demoteBelowFloor(results []models.Movie, floor int) []models.Movie {
	passing := make([]models.Movie, 0, len(results))
	var demoted []models.Movie
	for _, m := range results {
		if m.NumRatings >= floor {
			passing = append(passing, m)
		} else {
			demoted = append(demoted, m)
		}
	}
	if len(passing) == 0 {
		return results
	}
	return append(passing, demoted...)
}
