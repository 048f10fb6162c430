// Package store defines the catalog persistence interface consumed by the
// query pipeline, plus the write paths used by ingestion.
package store

import (
	"context"

	"github.com/hyperjump/eiga/internal/models"
)

// MovieFilter describes a read against the catalog: genre any-match, an
// optional year window, and optional rating bounds. Zero values mean "no
// constraint". Limit bounds how many rows the store may return.
type MovieFilter struct {
	Genres    []string
	Year      int
	YearFrom  int
	YearTo    int
	MinRating *float64
	MaxRating *float64
	Limit     int
}

// TitleEntry is a compact (id, title) pair used to build the title index.
type TitleEntry struct {
	MovieID    int64
	Title      string
	NumRatings int
}

// IngestMovie is one movie record from the dataset loader.
type IngestMovie struct {
	MovieID     int64
	Title       string
	ReleaseDate string
	Genres      []string
}

// IngestRating is one rating record from the dataset loader.
type IngestRating struct {
	UserID   int64
	MovieID  int64
	Rating   int
	UnixTime int64
}

// Store defines catalog read and ingestion operations. The query pipeline
// only ever reads; writes happen during ingestion.
type Store interface {
	// Read paths used by the dispatcher.
	FindByTitle(ctx context.Context, title string, limit int) ([]models.MovieRow, error)
	Filter(ctx context.Context, f MovieFilter) ([]models.MovieRow, error)
	SimilarByGenres(ctx context.Context, seedID int64, limit int) ([]models.MovieRow, error)

	// Titles lists all (id, title) pairs for title-index building.
	Titles(ctx context.Context) ([]TitleEntry, error)

	// Stats summarizes the catalog for the status endpoint.
	Stats(ctx context.Context) (*models.CatalogStats, error)

	// Write paths used by ingestion.
	ReplaceMovies(ctx context.Context, movies []IngestMovie) error
	ReplaceRatings(ctx context.Context, ratings []IngestRating) error
	RebuildRatingStats(ctx context.Context) error

	Close() error
}
