package models

import "strings"

// MovieRow is one catalog record as returned by the store, before
// normalization. ReleaseDate is the raw date text from the dataset
// (e.g. "01-Jan-1995"); Genres is the pipe-joined genre list from SQL.
type MovieRow struct {
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	AvgRating   *float64 `json:"avg_rating"`
	NumRatings  int      `json:"num_ratings"`
	Genres      string   `json:"genres"`
	// Overlap is the shared-genre count for SIMILAR_MOVIES results; zero otherwise.
	Overlap int `json:"overlap,omitempty"`
}

// Movie is a canonicalized result row. Year and Rating are nil when the
// catalog has no value; a zero rating is a valid rating and is kept.
type Movie struct {
	MovieID    int64    `json:"movie_id"`
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	Rating     *float64 `json:"rating"`
	NumRatings int      `json:"num_ratings"`
	Genres     []string `json:"genres"`
	Overlap    int      `json:"overlap,omitempty"`
}

// PrimaryGenre returns the first genre, or "Unknown" when the row has none.
// Used for genre-bucket diversification.
func (m *Movie) PrimaryGenre() string {
	if len(m.Genres) == 0 {
		return "Unknown"
	}
	return m.Genres[0]
}

// SplitGenres splits a pipe- or comma-joined genre string into a clean list,
// preserving order and dropping empties.
func SplitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CatalogStats summarizes the catalog for the status endpoint.
type CatalogStats struct {
	MovieCount       int64  `json:"movie_count"`
	RatingCount      int64  `json:"rating_count"`
	MostCommonRating int    `json:"most_common_rating,omitempty"`
	MostRatedTitle   string `json:"most_rated_title,omitempty"`
	MostRatedCount   int64  `json:"most_rated_count,omitempty"`
}
