// Package respond implements the response half of the query pipeline: result
// normalization, context building, edge-case handling, fact compilation, and
// conversational rendering. Every stage is a pure function of its inputs.
package respond

import (
	"fmt"
	"sort"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/parser"
)

// StructuralError reports a malformed payload reaching the response pipeline.
// It is the only hard failure this half of the pipeline raises.
type StructuralError struct {
	Field string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: missing or invalid %s", e.Field)
}

// Preprocess normalizes raw rows into canonical results: rows become Movie
// values, duplicates collapse to their first occurrence, the ordering
// contract is enforced, and the set is capped per intent. Found records the
// true pre-cap count and Pool keeps the full ranked list so diversification
// can later re-select which items survive the cap.
func Preprocess(payload *models.ExecutorPayload, pcfg config.PipelineConfig) (*models.ResultSet, error) {
	if payload == nil {
		return nil, &StructuralError{Field: "payload"}
	}
	if payload.Intent == "" {
		return nil, &StructuralError{Field: "intent"}
	}

	seen := make(map[int64]bool, len(payload.Rows))
	movies := make([]models.Movie, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		if seen[row.MovieID] {
			continue
		}
		seen[row.MovieID] = true
		movies = append(movies, normalizeRow(row))
	}

	sortResults(movies, payload.Intent)

	rs := &models.ResultSet{
		Intent: payload.Intent,
		Slots:  payload.Slots,
		Found:  len(movies),
		Pool:   movies,
	}

	cap := capForIntent(payload.Intent, payload.Slots, pcfg)
	if len(movies) > cap {
		rs.Results = movies[:cap]
	} else {
		rs.Results = movies
	}
	return rs, nil
}

// normalizeRow casts a raw catalog row into a Movie. A missing rating stays
// nil rather than becoming zero, and a year of 0 becomes nil.
func normalizeRow(row models.MovieRow) models.Movie {
	m := models.Movie{
		MovieID:    row.MovieID,
		Title:      row.Title,
		Rating:     row.AvgRating,
		NumRatings: row.NumRatings,
		Genres:     models.SplitGenres(row.Genres),
		Overlap:    row.Overlap,
	}
	if y := parser.YearFromDateText(row.ReleaseDate); y != 0 {
		m.Year = &y
	}
	return m
}

// sortResults enforces the ordering contract: rating desc with missing
// ratings last, then num_ratings desc, then title asc. SIMILAR_MOVIES ranks
// by genre overlap first.
func sortResults(movies []models.Movie, intent models.Intent) {
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := &movies[i], &movies[j]
		if intent == models.IntentSimilarMovies && a.Overlap != b.Overlap {
			return a.Overlap > b.Overlap
		}
		switch {
		case a.Rating == nil && b.Rating != nil:
			return false
		case a.Rating != nil && b.Rating == nil:
			return true
		case a.Rating != nil && b.Rating != nil && *a.Rating != *b.Rating:
			return *a.Rating > *b.Rating
		}
		if a.NumRatings != b.NumRatings {
			return a.NumRatings > b.NumRatings
		}
		return a.Title < b.Title
	})
}

// capForIntent returns the processing cap: TOP_N honors its limit, every
// other intent uses the configured cap.
func capForIntent(intent models.Intent, slots models.Slots, pcfg config.PipelineConfig) int {
	if intent == models.IntentTopN && slots.Limit > 0 {
		return slots.Limit
	}
	if pcfg.ProcessingCap > 0 {
		return pcfg.ProcessingCap
	}
	return fallbackProcessingCap
}

// fallbackProcessingCap only matters when configuration defaults were bypassed.
const fallbackProcessingCap = 20
