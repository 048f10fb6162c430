// Package dispatch routes a parsed query to the store read that serves its
// intent and wraps the rows into an executor payload.
package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/store"
	"github.com/hyperjump/eiga/internal/titleindex"
)

// Dispatcher executes one store read per query. The intent and slots are
// echoed into the payload unchanged so downstream stages never re-parse.
type Dispatcher struct {
	store      store.Store
	titles     *titleindex.TitleIndex
	fetchLimit int
	logger     *zap.Logger
}

// New creates a Dispatcher. titles may be nil; title resolution then falls
// back to substring lookup only.
func New(s store.Store, titles *titleindex.TitleIndex, pcfg config.PipelineConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:      s,
		titles:     titles,
		fetchLimit: pcfg.FetchLimit,
		logger:     logger,
	}
}

// Dispatch runs the store read for the parsed query. Empty results are not an
// error; the payload simply carries zero rows and the edge-case handler deals
// with it. Errors are reserved for store failures.
func (d *Dispatcher) Dispatch(ctx context.Context, q models.ParsedQuery) (*models.ExecutorPayload, error) {
	payload := &models.ExecutorPayload{Intent: q.Intent, Slots: q.Slots}

	var rows []models.MovieRow
	var err error
	switch q.Intent {
	case models.IntentGetDetails:
		rows, err = d.lookupTitle(ctx, q.Slots.Title, 1)
	case models.IntentSimilarMovies:
		rows, err = d.similar(ctx, q.Slots.Title)
	case models.IntentTopN, models.IntentRecommendByFilter:
		rows, err = d.store.Filter(ctx, d.buildFilter(q.Slots))
	default:
		return nil, fmt.Errorf("unknown intent: %s", q.Intent)
	}
	if err != nil {
		return nil, err
	}

	payload.Rows = rows
	d.logger.Debug("query dispatched",
		zap.String("intent", string(q.Intent)),
		zap.Int("rows", len(rows)))
	return payload, nil
}

// buildFilter maps slots to a store filter. The since/until slots and the
// explicit range collapse into one window; rating bounds pass through.
func (d *Dispatcher) buildFilter(s models.Slots) store.MovieFilter {
	f := store.MovieFilter{
		Genres:    s.Genres,
		Year:      s.Year,
		YearFrom:  s.YearFrom,
		YearTo:    s.YearTo,
		MinRating: s.MinRating,
		MaxRating: s.MaxRating,
		Limit:     d.fetchLimit,
	}
	if s.SinceYear != 0 && f.YearFrom == 0 {
		f.YearFrom = s.SinceYear
	}
	if s.UntilYear != 0 && f.YearTo == 0 {
		f.YearTo = s.UntilYear
	}
	if s.RatingCmp == models.RatingCmpEq && s.MinRating != nil && f.MaxRating == nil {
		f.MaxRating = s.MinRating
	}
	return f
}

// lookupTitle resolves a title phrase to rows: substring match first, then
// the fuzzy title index.
func (d *Dispatcher) lookupTitle(ctx context.Context, title string, limit int) ([]models.MovieRow, error) {
	if title == "" {
		return nil, nil
	}
	rows, err := d.store.FindByTitle(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 || d.titles == nil {
		return rows, nil
	}

	candidates, err := d.titles.Resolve(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		found, err := d.store.FindByTitle(ctx, c.Title, 1)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			rows = append(rows, found[0])
		}
		if len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

// similar resolves the seed title, then ranks other movies by shared-genre
// overlap. A missing seed yields zero rows; the edge-case handler turns that
// into a seed_missing flag with suggestions.
func (d *Dispatcher) similar(ctx context.Context, seedTitle string) ([]models.MovieRow, error) {
	seeds, err := d.lookupTitle(ctx, seedTitle, 1)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, nil
	}
	return d.store.SimilarByGenres(ctx, seeds[0].MovieID, d.fetchLimit)
}

// SuggestTitles returns up to three near-miss catalog titles for a phrase
// that could not be resolved.
func (d *Dispatcher) SuggestTitles(phrase string) []string {
	if d.titles == nil {
		return nil
	}
	return d.titles.Suggest(phrase)
}
