// Package ingest loads the MovieLens-style dataset files into the catalog
// store and keeps them in sync with the data directory.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hyperjump/eiga/internal/store"
)

// Dataset file names inside the data directory.
const (
	MoviesFile  = "u.item"
	RatingsFile = "u.data"
)

// itemGenres maps the 19 genre flag columns of the movies file, in column
// order. The "unknown" flag is a placeholder, not a real genre, and is
// skipped during loading.
var itemGenres = []string{
	"unknown", "Action", "Adventure", "Animation", "Children's", "Comedy",
	"Crime", "Documentary", "Drama", "Fantasy", "Film-Noir", "Horror",
	"Musical", "Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}

// movieFieldCount is id, title, release date, video date, IMDb URL, then one
// column per genre flag.
const movieFieldCount = 5 + 19

// LoadMovies parses the pipe-separated movies file. The file is Latin-1
// encoded; bytes are transcoded to UTF-8 so accented titles survive. Rows
// that do not parse are skipped rather than failing the whole load.
func LoadMovies(path string) ([]store.IngestMovie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open movies file: %w", err)
	}
	defer f.Close()

	var movies []store.IngestMovie
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := latin1ToUTF8(scanner.Bytes())
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < movieFieldCount {
			continue
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		m := store.IngestMovie{
			MovieID:     id,
			Title:       strings.TrimSpace(fields[1]),
			ReleaseDate: strings.TrimSpace(fields[2]),
		}
		for i, name := range itemGenres {
			if name == "unknown" {
				continue
			}
			if fields[5+i] == "1" {
				m.Genres = append(m.Genres, name)
			}
		}
		movies = append(movies, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies file: %w", err)
	}
	return movies, nil
}

// LoadRatings parses the tab-separated ratings file: user id, movie id,
// rating, unix timestamp. Rows that do not parse are skipped.
func LoadRatings(path string) ([]store.IngestRating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ratings file: %w", err)
	}
	defer f.Close()

	var ratings []store.IngestRating
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 3 {
			continue
		}
		userID, err1 := strconv.ParseInt(fields[0], 10, 64)
		movieID, err2 := strconv.ParseInt(fields[1], 10, 64)
		rating, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		r := store.IngestRating{UserID: userID, MovieID: movieID, Rating: rating}
		if len(fields) >= 4 {
			if ts, err := strconv.ParseInt(fields[3], 10, 64); err == nil {
				r.UnixTime = ts
			}
		}
		ratings = append(ratings, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratings file: %w", err)
	}
	return ratings, nil
}

// latin1ToUTF8 transcodes an ISO-8859-1 byte slice to a UTF-8 string. Each
// byte maps directly to the code point of the same value.
func latin1ToUTF8(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
