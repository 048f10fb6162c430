// Package models defines core data structures for parsed queries, catalog
// rows, and pipeline payloads.
package models

import "fmt"

// Intent is the high-level action a query requests.
type Intent string

const (
	// IntentGetDetails looks up a single title.
	IntentGetDetails Intent = "GET_DETAILS"
	// IntentSimilarMovies finds titles sharing genres with a seed title.
	IntentSimilarMovies Intent = "SIMILAR_MOVIES"
	// IntentTopN returns a ranked list truncated to a requested count.
	IntentTopN Intent = "TOP_N"
	// IntentRecommendByFilter recommends by genre/year/rating filters.
	// It is also the fallback for cue-free or ambiguous input.
	IntentRecommendByFilter Intent = "RECOMMEND_BY_FILTER"
)

// RatingCmp is the comparator attached to a rating bound.
type RatingCmp string

const (
	RatingCmpEq      RatingCmp = "eq"
	RatingCmpGe      RatingCmp = "ge"
	RatingCmpLe      RatingCmp = "le"
	RatingCmpBetween RatingCmp = "between"
)

// Slots holds the typed parameters extracted from query text. Zero values
// mean "unset" for years and limit; rating bounds use pointers because 0 is
// a valid rating.
type Slots struct {
	Limit     int       `json:"limit,omitempty"`
	Year      int       `json:"year,omitempty"`
	YearFrom  int       `json:"year_from,omitempty"`
	YearTo    int       `json:"year_to,omitempty"`
	SinceYear int       `json:"since_year,omitempty"`
	UntilYear int       `json:"until_year,omitempty"`
	MinRating *float64  `json:"min_rating,omitempty"`
	MaxRating *float64  `json:"max_rating,omitempty"`
	RatingCmp RatingCmp `json:"rating_cmp,omitempty"`
	Genres    []string  `json:"genres,omitempty"`
	Title     string    `json:"title,omitempty"`
}

// HasYearFilter reports whether any year-related slot is set.
func (s *Slots) HasYearFilter() bool {
	return s.Year != 0 || s.YearFrom != 0 || s.YearTo != 0 || s.SinceYear != 0 || s.UntilYear != 0
}

// HasRatingFilter reports whether a rating bound is set.
func (s *Slots) HasRatingFilter() bool {
	return s.MinRating != nil || s.MaxRating != nil
}

// ParsedQuery is the result of rule-based parsing: an intent plus slots.
// Intent is always set; unmatched rules leave slots at their zero values.
type ParsedQuery struct {
	Intent  Intent `json:"intent"`
	Slots   Slots  `json:"slots"`
	RawText string `json:"raw_text,omitempty"`
}

// AskRequest is the pipeline entry input: free text plus an optional limit
// override applied on top of any parsed "top N" count.
type AskRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// Validate ensures the request has text and normalizes the limit override.
func (r *AskRequest) Validate(maxLimit int) error {
	if r.Text == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if r.Limit < 0 {
		r.Limit = 0
	}
	if maxLimit > 0 && r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return nil
}
