package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "movies.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	movies := []store.IngestMovie{
		{MovieID: 1, Title: "Toy Story (1995)", ReleaseDate: "01-Jan-1995", Genres: []string{"Animation", "Comedy"}},
		{MovieID: 2, Title: "GoldenEye (1995)", ReleaseDate: "01-Jan-1995", Genres: []string{"Action", "Thriller"}},
		{MovieID: 3, Title: "Heat (1995)", ReleaseDate: "01-Jan-1995", Genres: []string{"Action", "Crime", "Thriller"}},
		{MovieID: 4, Title: "Aliens (1986)", ReleaseDate: "01-Jan-1986", Genres: []string{"Action", "Sci-Fi", "Thriller"}},
	}
	if err := s.ReplaceMovies(ctx, movies); err != nil {
		t.Fatalf("failed to seed movies: %v", err)
	}
	ratings := []store.IngestRating{
		{UserID: 1, MovieID: 1, Rating: 5}, {UserID: 2, MovieID: 1, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: 3},
		{UserID: 1, MovieID: 3, Rating: 5},
		{UserID: 1, MovieID: 4, Rating: 4},
	}
	if err := s.ReplaceRatings(ctx, ratings); err != nil {
		t.Fatalf("failed to seed ratings: %v", err)
	}
	if err := s.RebuildRatingStats(ctx); err != nil {
		t.Fatalf("failed to rebuild stats: %v", err)
	}

	idx, err := titleindex.NewTitleIndex(filepath.Join(t.TempDir(), "titles.bleve"))
	if err != nil {
		t.Fatalf("failed to create title index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	entries, err := s.Titles(ctx)
	if err != nil {
		t.Fatalf("failed to list titles: %v", err)
	}
	if err := idx.Build(ctx, entries); err != nil {
		t.Fatalf("failed to build title index: %v", err)
	}

	pcfg := config.PipelineConfig{FetchLimit: 200}
	return New(s, idx, pcfg, nil), s
}

func TestDispatchGetDetails(t *testing.T) {
	d, _ := newTestDispatcher(t)

	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentGetDetails,
		Slots:  models.Slots{Title: "Toy Story"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if payload.Intent != models.IntentGetDetails {
		t.Errorf("intent not echoed: %s", payload.Intent)
	}
	if len(payload.Rows) != 1 || payload.Rows[0].Title != "Toy Story (1995)" {
		t.Fatalf("unexpected rows: %+v", payload.Rows)
	}
}

func TestDispatchGetDetailsFuzzyFallback(t *testing.T) {
	d, _ := newTestDispatcher(t)

	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentGetDetails,
		Slots:  models.Slots{Title: "Toy Stroy"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) != 1 || payload.Rows[0].MovieID != 1 {
		t.Fatalf("expected fuzzy-resolved Toy Story, got %+v", payload.Rows)
	}
}

func TestDispatchSimilarMovies(t *testing.T) {
	d, _ := newTestDispatcher(t)

	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentSimilarMovies,
		Slots:  models.Slots{Title: "GoldenEye"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) == 0 {
		t.Fatal("expected similar movies")
	}
	for _, r := range payload.Rows {
		if r.MovieID == 2 {
			t.Error("seed movie in its own similarity results")
		}
	}
	if payload.Rows[0].Overlap < payload.Rows[len(payload.Rows)-1].Overlap {
		t.Error("rows not ordered by overlap")
	}
}

func TestDispatchSimilarSeedMissing(t *testing.T) {
	d, _ := newTestDispatcher(t)

	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentSimilarMovies,
		Slots:  models.Slots{Title: "Completely Unknown Movie XYZ"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) != 0 {
		t.Errorf("expected zero rows for missing seed, got %d", len(payload.Rows))
	}
}

func TestDispatchFilter(t *testing.T) {
	d, _ := newTestDispatcher(t)

	min := 4.0
	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentRecommendByFilter,
		Slots: models.Slots{
			Genres:    []string{"Action"},
			MinRating: &min,
			RatingCmp: models.RatingCmpGe,
		},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(payload.Rows))
	}
	for _, r := range payload.Rows {
		if r.AvgRating == nil || *r.AvgRating < 4.0 {
			t.Errorf("row below rating floor: %+v", r)
		}
	}
}

func TestDispatchSinceYearCollapsesToWindow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentRecommendByFilter,
		Slots:  models.Slots{SinceYear: 1990},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) != 3 {
		t.Errorf("expected 3 rows from 1990 on, got %d", len(payload.Rows))
	}
}

func TestDispatchExactRatingBecomesBand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	v := 3.0
	payload, err := d.Dispatch(context.Background(), models.ParsedQuery{
		Intent: models.IntentRecommendByFilter,
		Slots: models.Slots{
			MinRating: &v,
			RatingCmp: models.RatingCmpEq,
		},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(payload.Rows) != 1 || payload.Rows[0].Title != "GoldenEye (1995)" {
		t.Fatalf("expected exactly GoldenEye at 3.0, got %+v", payload.Rows)
	}
}
