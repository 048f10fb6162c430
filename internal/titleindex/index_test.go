package titleindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/eiga/internal/store"
)

func testEntries() []store.TitleEntry {
	return []store.TitleEntry{
		{MovieID: 1, Title: "Toy Story (1995)", NumRatings: 452},
		{MovieID: 2, Title: "GoldenEye (1995)", NumRatings: 131},
		{MovieID: 50, Title: "Star Wars (1977)", NumRatings: 583},
		{MovieID: 172, Title: "Empire Strikes Back, The (1980)", NumRatings: 367},
		{MovieID: 181, Title: "Return of the Jedi (1983)", NumRatings: 507},
	}
}

func newBuiltIndex(t *testing.T) *TitleIndex {
	t.Helper()
	idx, err := NewTitleIndex(filepath.Join(t.TempDir(), "titles.bleve"))
	if err != nil {
		t.Fatalf("failed to create title index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if err := idx.Build(context.Background(), testEntries()); err != nil {
		t.Fatalf("failed to build title index: %v", err)
	}
	return idx
}

func TestResolveExact(t *testing.T) {
	idx := newBuiltIndex(t)

	hits, err := idx.Resolve(context.Background(), "Toy Story", 3)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	if hits[0].MovieID != 1 {
		t.Errorf("expected movie 1 first, got %d (%s)", hits[0].MovieID, hits[0].Title)
	}
}

func TestResolveFuzzyTypo(t *testing.T) {
	idx := newBuiltIndex(t)

	hits, err := idx.Resolve(context.Background(), "Toy Stroy", 3)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected fuzzy match for typo")
	}
	found := false
	for _, h := range hits {
		if h.MovieID == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Toy Story among fuzzy hits, got %+v", hits)
	}
}

func TestResolveNoMatch(t *testing.T) {
	idx := newBuiltIndex(t)

	hits, err := idx.Resolve(context.Background(), "zzzzqqqq", 3)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
}

func TestSuggest(t *testing.T) {
	idx := newBuiltIndex(t)

	got := idx.Suggest("Toy Storry")
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if got[0] != "Toy Story (1995)" {
		t.Errorf("expected Toy Story suggested first, got %v", got)
	}
	if len(got) > 3 {
		t.Errorf("expected at most 3 suggestions, got %d", len(got))
	}
}

func TestSuggestEmptyInput(t *testing.T) {
	idx := newBuiltIndex(t)
	if got := idx.Suggest("   "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"toy story", "toy stroy", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStripYearSuffix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Toy Story (1995)", "Toy Story"},
		{"Heat", "Heat"},
		{"Brazil (1985)", "Brazil"},
		{"(500) Days", "(500) Days"},
		{"Movie (abcd)", "Movie (abcd)"},
	}
	for _, tt := range tests {
		if got := stripYearSuffix(tt.in); got != tt.want {
			t.Errorf("stripYearSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
