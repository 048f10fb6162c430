package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/dispatch"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/parser"
	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

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
		{MovieID: 5, Title: "Die Hard (1988)", ReleaseDate: "01-Jan-1988", Genres: []string{"Action", "Thriller"}},
	}
	if err := s.ReplaceMovies(ctx, movies); err != nil {
		t.Fatalf("failed to seed movies: %v", err)
	}
	var ratings []store.IngestRating
	for movieID := int64(1); movieID <= 5; movieID++ {
		for user := int64(1); user <= 60; user++ {
			ratings = append(ratings, store.IngestRating{
				UserID: user, MovieID: movieID, Rating: int(3 + movieID%3),
			})
		}
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
		t.Fatalf("failed to build index: %v", err)
	}

	p := parser.New(cfg.Vocab, cfg.Pipeline)
	d := dispatch.New(s, idx, cfg.Pipeline, nil)
	return New(p, d, cfg.Pipeline, nil)
}

func TestParseOnly(t *testing.T) {
	e := newTestEngine(t)
	resp := e.Parse("top 5 action movies since 1998")
	if resp.Parsed.Intent != models.IntentTopN {
		t.Errorf("expected TOP_N, got %s", resp.Parsed.Intent)
	}
	if resp.Parsed.Slots.Limit != 5 || resp.Parsed.Slots.SinceYear != 1998 {
		t.Errorf("unexpected slots: %+v", resp.Parsed.Slots)
	}
}

func TestAskDetails(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Ask(context.Background(), models.AskRequest{Text: "tell me about Toy Story"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Parsed.Intent != models.IntentGetDetails {
		t.Errorf("expected GET_DETAILS, got %s", resp.Parsed.Intent)
	}
	if resp.Found != 1 {
		t.Errorf("expected 1 found, got %d", resp.Found)
	}
	if !strings.Contains(resp.Answer, "Toy Story") {
		t.Errorf("answer missing title: %q", resp.Answer)
	}
	if resp.RequestID == "" {
		t.Error("missing request id")
	}
}

func TestAskSeedMissingSuggestsTitles(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Ask(context.Background(), models.AskRequest{Text: "tell me about Toy Storry"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	// The fuzzy index resolves the typo; if it somehow misses, the answer
	// must carry title suggestions instead.
	if resp.Found == 0 {
		joined := strings.Join(resp.Suggestions, " ")
		if !strings.Contains(joined, "Toy Story") {
			t.Errorf("expected near-miss title suggestion, got %v", resp.Suggestions)
		}
	}
}

func TestAskRecommendFallbackNeverErrors(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Ask(context.Background(), models.AskRequest{Text: "mumble grumble nothing useful"})
	if err != nil {
		t.Fatalf("cue-free input must not error: %v", err)
	}
	if resp.Parsed.Intent != models.IntentRecommendByFilter {
		t.Errorf("expected RECOMMEND_BY_FILTER fallback, got %s", resp.Parsed.Intent)
	}
	if resp.Answer == "" {
		t.Error("expected an answer sentence")
	}
}

func TestAskEmptyTextRejected(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Ask(context.Background(), models.AskRequest{}); err == nil {
		t.Error("expected validation error for empty text")
	}
}

func TestAskLimitOverride(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Ask(context.Background(), models.AskRequest{Text: "top movies", Limit: 2})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Parsed.Slots.Limit != 2 {
		t.Errorf("limit override not applied: %d", resp.Parsed.Slots.Limit)
	}
	if len(resp.Results) > 2 {
		t.Errorf("results exceed limit: %d", len(resp.Results))
	}
}

func TestAskSimilar(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Ask(context.Background(), models.AskRequest{Text: "movies like GoldenEye"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Parsed.Intent != models.IntentSimilarMovies {
		t.Errorf("expected SIMILAR_MOVIES, got %s", resp.Parsed.Intent)
	}
	if resp.Found == 0 {
		t.Fatal("expected similar titles")
	}
	for _, m := range resp.Results {
		if m.Title == "GoldenEye (1995)" {
			t.Error("seed title included in similar results")
		}
	}
}

func TestExecuteReturnsNoAnswer(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Execute(context.Background(), models.AskRequest{Text: "action movies"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Found == 0 {
		t.Error("expected action matches")
	}
	if resp.Parsed.Intent != models.IntentRecommendByFilter {
		t.Errorf("unexpected intent: %s", resp.Parsed.Intent)
	}
}
