package respond

import (
	"fmt"
	"strings"

	"github.com/hyperjump/eiga/internal/config"
	"github.com/hyperjump/eiga/internal/models"
)

// Placeholder text for missing fact fields. Fields are never omitted
// silently.
const (
	placeholderYear   = "year n/a"
	placeholderRating = "rating n/a"
	placeholderGenres = "genres n/a"
)

// CompileFacts builds the deterministic fact sheet: one quadruple line per
// surviving result up to the display cap, the context line restated verbatim,
// and the true found count kept separate from the displayed count.
func CompileFacts(rs *models.ResultSet, cctx *models.Context, pcfg config.PipelineConfig) *models.FactSheet {
	displayCap := pcfg.DisplayCap
	if displayCap <= 0 {
		displayCap = 5
	}

	sheet := &models.FactSheet{
		ContextLine: cctx.FiltersText,
		FoundCount:  cctx.ResultCount,
	}
	for i, m := range rs.Results {
		if i >= displayCap {
			break
		}
		sheet.Facts = append(sheet.Facts, compileFact(&m))
	}
	return sheet
}

func compileFact(m *models.Movie) models.Fact {
	f := models.Fact{
		Title:  m.Title,
		Year:   placeholderYear,
		Rating: placeholderRating,
		Genres: placeholderGenres,
	}
	if m.Year != nil {
		f.Year = fmt.Sprintf("%d", *m.Year)
	}
	if m.Rating != nil {
		f.Rating = fmt.Sprintf("%.1f/5", *m.Rating)
	}
	if len(m.Genres) > 0 {
		f.Genres = strings.Join(m.Genres, "/")
	}
	f.Line = fmt.Sprintf("%s (%s, %s, %s)", f.Title, f.Year, f.Rating, f.Genres)
	return f
}
