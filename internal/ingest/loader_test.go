package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func sampleMoviesData() []byte {
	// id|title|release|video|url|19 genre flags
	return []byte(
		"1|Toy Story (1995)|01-Jan-1995||http://example/1|0|0|0|1|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0\n" +
			"2|GoldenEye (1995)|01-Jan-1995||http://example/2|0|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0|1|0|0\n" +
			"3|Nothing (1990)|01-Jan-1990||http://example/3|1|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0\n" +
			"bad line without enough fields\n")
}

func TestLoadMovies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, MoviesFile, sampleMoviesData())

	movies, err := LoadMovies(path)
	if err != nil {
		t.Fatalf("LoadMovies failed: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(movies))
	}

	if movies[0].Title != "Toy Story (1995)" {
		t.Errorf("unexpected title: %s", movies[0].Title)
	}
	wantGenres := []string{"Animation", "Children's", "Comedy"}
	if len(movies[0].Genres) != len(wantGenres) {
		t.Fatalf("expected genres %v, got %v", wantGenres, movies[0].Genres)
	}
	for i, g := range wantGenres {
		if movies[0].Genres[i] != g {
			t.Errorf("genre %d: expected %s, got %s", i, g, movies[0].Genres[i])
		}
	}

	// The "unknown" flag column is not a genre.
	if len(movies[2].Genres) != 0 {
		t.Errorf("expected no genres for unknown-flagged movie, got %v", movies[2].Genres)
	}
}

func TestLoadMoviesLatin1(t *testing.T) {
	dir := t.TempDir()
	// "Cité des enfants perdus, La (1995)" with Latin-1 encoded e-acute (0xE9).
	line := append([]byte("29|Cit"), 0xE9)
	line = append(line, []byte(" des enfants perdus, La (1995)|01-Jan-1995||url|0|0|0|0|0|0|0|0|0|1|0|0|0|0|0|1|0|0|0\n")...)
	path := writeFile(t, dir, MoviesFile, line)

	movies, err := LoadMovies(path)
	if err != nil {
		t.Fatalf("LoadMovies failed: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}
	if movies[0].Title != "Cité des enfants perdus, La (1995)" {
		t.Errorf("Latin-1 transcode failed: %q", movies[0].Title)
	}
}

func TestLoadRatings(t *testing.T) {
	dir := t.TempDir()
	data := []byte("196\t242\t3\t881250949\n186\t302\t3\t891717742\nnot a row\n22\t377\t1\t878887116\n")
	path := writeFile(t, dir, RatingsFile, data)

	ratings, err := LoadRatings(path)
	if err != nil {
		t.Fatalf("LoadRatings failed: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("expected 3 ratings, got %d", len(ratings))
	}
	if ratings[0].UserID != 196 || ratings[0].MovieID != 242 || ratings[0].Rating != 3 {
		t.Errorf("unexpected first rating: %+v", ratings[0])
	}
	if ratings[0].UnixTime != 881250949 {
		t.Errorf("unexpected timestamp: %d", ratings[0].UnixTime)
	}
}

func TestLoadMoviesMissingFile(t *testing.T) {
	if _, err := LoadMovies(filepath.Join(t.TempDir(), "nope.item")); err == nil {
		t.Error("expected error for missing file")
	}
}
