package parser

import (
	"strings"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
)

// Parser is the rule-based intent parser. Extractors are independent and
// total: absence of a match leaves the corresponding slot unset rather than
// producing an error.
type Parser struct {
	genres        map[string]string
	maxGenreWords int
	numberWords   map[string]int
	filler        map[string]struct{}
	defaultLimit  int
	maxLimit      int
	starsMinimum  bool
}

// New creates a Parser from the vocabulary tables and pipeline tunables.
func New(vocab config.VocabConfig, pcfg config.PipelineConfig) *Parser {
	p := &Parser{
		genres:       vocab.Genres,
		numberWords:  vocab.NumberWords,
		filler:       make(map[string]struct{}, len(vocab.FillerWords)),
		defaultLimit: pcfg.DefaultLimit,
		maxLimit:     pcfg.MaxLimit,
		starsMinimum: pcfg.StarsMeanMinimumOrDefault(),
	}
	for _, w := range vocab.FillerWords {
		p.filler[strings.ToLower(w)] = struct{}{}
	}
	p.maxGenreWords = 1
	for alias := range vocab.Genres {
		if n := len(strings.Fields(alias)); n > p.maxGenreWords {
			p.maxGenreWords = n
		}
	}
	return p
}

// Detail and similarity cue phrases checked by the intent classifier.
var (
	detailCues  = []string{"tell me about", "details of", "who directed", "who starred"}
	similarCues = []string{"similar", "movies like", "films like", "like "}
)

// Parse turns raw text into a ParsedQuery. Intent is decided by fixed
// priority: detail cues with a title, then similarity cues with a title, then
// a count phrase without a seed title, then the filter-recommendation
// fallback. Parse never fails: cue-free input falls back to
// RECOMMEND_BY_FILTER with whatever slots were extracted.
func (p *Parser) Parse(text string) models.ParsedQuery {
	lower := strings.ToLower(strings.TrimSpace(text))
	tokens := Tokenize(text)

	var slots models.Slots
	limit, hasCount := p.extractCount(tokens)
	if hasCount {
		slots.Limit = limit
	}
	extractYears(tokens, &slots)
	p.extractRating(tokens, &slots)
	slots.Genres = p.extractGenres(tokens)
	slots.Title = p.extractTitle(text)

	intent := models.IntentRecommendByFilter
	switch {
	case slots.Title != "" && containsAny(lower, detailCues):
		intent = models.IntentGetDetails
	case slots.Title != "" && containsAny(lower, similarCues):
		intent = models.IntentSimilarMovies
	case hasCount && slots.Title == "":
		intent = models.IntentTopN
	}

	return models.ParsedQuery{
		Intent:  intent,
		Slots:   slots,
		RawText: text,
	}
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}
