package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
)

// Summary reports what one ingestion run loaded.
type Summary struct {
	Movies   int           `json:"movies"`
	Ratings  int           `json:"ratings"`
	Elapsed  time.Duration `json:"-"`
	Duration string        `json:"duration"`
}

// Ingestor loads dataset files into the store, recomputes rating statistics,
// and rebuilds the title index.
type Ingestor struct {
	store  store.Store
	titles *titleindex.TitleIndex
	logger *zap.Logger
}

// NewIngestor creates an Ingestor. titles may be nil when no index rebuild is
// wanted (e.g. one-shot CLI loads).
func NewIngestor(s store.Store, titles *titleindex.TitleIndex, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{store: s, titles: titles, logger: logger}
}

// Run ingests the dataset from dir. The movies file is required; a missing
// ratings file leaves rating statistics empty but is not an error.
func (in *Ingestor) Run(ctx context.Context, dir string) (*Summary, error) {
	start := time.Now()

	moviesPath := filepath.Join(dir, MoviesFile)
	movies, err := LoadMovies(moviesPath)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("no movies found in %s", moviesPath)
	}
	if err := in.store.ReplaceMovies(ctx, movies); err != nil {
		return nil, fmt.Errorf("failed to store movies: %w", err)
	}
	in.logger.Info("movies ingested", zap.Int("count", len(movies)), zap.String("path", moviesPath))

	ratingsPath := filepath.Join(dir, RatingsFile)
	var ratings []store.IngestRating
	if _, statErr := os.Stat(ratingsPath); statErr == nil {
		ratings, err = LoadRatings(ratingsPath)
		if err != nil {
			return nil, err
		}
		if err := in.store.ReplaceRatings(ctx, ratings); err != nil {
			return nil, fmt.Errorf("failed to store ratings: %w", err)
		}
		in.logger.Info("ratings ingested", zap.Int("count", len(ratings)), zap.String("path", ratingsPath))
	} else {
		in.logger.Warn("ratings file missing, rating stats will be empty", zap.String("path", ratingsPath))
	}

	if err := in.store.RebuildRatingStats(ctx); err != nil {
		return nil, err
	}

	if in.titles != nil {
		entries, err := in.store.Titles(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list titles for indexing: %w", err)
		}
		if err := in.titles.Build(ctx, entries); err != nil {
			return nil, err
		}
		in.logger.Info("title index rebuilt", zap.Int("titles", len(entries)))
	}

	elapsed := time.Since(start)
	return &Summary{
		Movies:   len(movies),
		Ratings:  len(ratings),
		Elapsed:  elapsed,
		Duration: elapsed.Round(time.Millisecond).String(),
	}, nil
}
