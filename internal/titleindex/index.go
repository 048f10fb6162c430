// Package titleindex provides fuzzy movie-title resolution backed by Bleve,
// plus edit-distance suggestions for titles that cannot be resolved.
package titleindex

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/eiga/internal/store"
)

// Candidate is one title-resolution hit.
type Candidate struct {
	MovieID int64
	Title   string
	Score   float64
}

// titleDoc is the shape indexed per movie.
type titleDoc struct {
	Title string `json:"title"`
}

// TitleIndex resolves free-form title phrases to catalog movie IDs. Bleve
// handles tokenized and fuzzy matching; an in-memory snapshot of all titles
// backs the Levenshtein suggestion path.
type TitleIndex struct {
	index bleve.Index

	mu      sync.RWMutex
	entries []store.TitleEntry
}

// NewTitleIndex creates or opens a Bleve index at path. An existing index is
// reused; remove the directory to force a rebuild after a mapping change.
func NewTitleIndex(path string) (*TitleIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	titleFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so short title
	// words match exactly.
	titleFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)
	im.AddDocumentMapping("title", docMapping)
	im.DefaultType = "title"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open title index: %w", openErr)
		}
		return &TitleIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create title index: %w", err)
	}
	return &TitleIndex{index: index}, nil
}

// NewMemoryTitleIndex creates an in-memory index, used by tests and one-shot
// CLI invocations that should not touch the on-disk index.
func NewMemoryTitleIndex() (*TitleIndex, error) {
	im := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory title index: %w", err)
	}
	return &TitleIndex{index: index}, nil
}

// Build indexes every catalog title and snapshots the entries for the
// suggestion path. Safe to call again after re-ingestion.
func (t *TitleIndex) Build(ctx context.Context, entries []store.TitleEntry) error {
	batch := t.index.NewBatch()
	for _, e := range entries {
		doc := titleDoc{Title: e.Title}
		if err := batch.Index(strconv.FormatInt(e.MovieID, 10), doc); err != nil {
			return fmt.Errorf("failed to index title %q: %w", e.Title, err)
		}
	}
	if err := t.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit title batch: %w", err)
	}

	t.mu.Lock()
	t.entries = append([]store.TitleEntry(nil), entries...)
	t.mu.Unlock()
	return nil
}

// Resolve finds the best catalog matches for a title phrase. An exact match
// query runs first; when it misses, a fuzzy query (edit distance 2 per term)
// catches typos like "Toy Stroy".
func (t *TitleIndex) Resolve(ctx context.Context, phrase string, limit int) ([]Candidate, error) {
	if limit < 1 {
		limit = 1
	}

	hits, err := t.search(bleve.NewMatchQuery(phrase), limit)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits, nil
	}

	terms := tokenizePhrase(phrase)
	if len(terms) == 0 {
		return nil, nil
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(2)
		fq.SetField("title")
		queries = append(queries, fq)
	}
	return t.search(bleve.NewDisjunctionQuery(queries...), limit)
}

func (t *TitleIndex) search(q blevequery.Query, limit int) ([]Candidate, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"title"}
	results, err := t.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("title search failed: %w", err)
	}

	out := make([]Candidate, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		c := Candidate{MovieID: id, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			c.Title = title
		}
		out = append(out, c)
	}
	return out, nil
}

// tokenizePhrase splits a phrase into lowercase terms.
func tokenizePhrase(phrase string) []string {
	words := strings.Fields(strings.ToLower(phrase))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			terms = append(terms, w)
		}
	}
	return terms
}

// DocCount returns the number of indexed titles.
func (t *TitleIndex) DocCount() (uint64, error) {
	return t.index.DocCount()
}

// Close closes the underlying index.
func (t *TitleIndex) Close() error {
	return t.index.Close()
}
