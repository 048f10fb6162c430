// Package store provides the SQLite implementation of the Store interface.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/eiga/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS movies (
		movie_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		release_date TEXT,
		avg_rating REAL,
		num_ratings INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title);

	CREATE TABLE IF NOT EXISTS genres (
		genre_id INTEGER PRIMARY KEY AUTOINCREMENT,
		genre_name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER NOT NULL,
		genre_id INTEGER NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		FOREIGN KEY (movie_id) REFERENCES movies(movie_id) ON DELETE CASCADE,
		FOREIGN KEY (genre_id) REFERENCES genres(genre_id)
	);

	CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres(genre_id);

	CREATE TABLE IF NOT EXISTS ratings (
		user_id INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		rating INTEGER NOT NULL,
		unix_time INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings(movie_id);
	`
	_, err := db.Exec(schema)
	return err
}

// movieColumns is the shared select list: movie fields plus the pipe-joined
// genre list aggregated per movie.
const movieColumns = `
	m.movie_id, m.title, m.release_date, m.avg_rating, m.num_ratings,
	COALESCE((
		SELECT GROUP_CONCAT(g.genre_name, '|')
		FROM movie_genres mg JOIN genres g ON g.genre_id = mg.genre_id
		WHERE mg.movie_id = m.movie_id
	), '')`

func scanMovieRow(rows *sql.Rows, withOverlap bool) (models.MovieRow, error) {
	var row models.MovieRow
	var releaseDate sql.NullString
	var avgRating sql.NullFloat64
	dest := []interface{}{&row.MovieID, &row.Title, &releaseDate, &avgRating, &row.NumRatings, &row.Genres}
	if withOverlap {
		dest = append(dest, &row.Overlap)
	}
	if err := rows.Scan(dest...); err != nil {
		return row, err
	}
	row.ReleaseDate = releaseDate.String
	if avgRating.Valid {
		v := avgRating.Float64
		row.AvgRating = &v
	}
	return row, nil
}

func collectMovieRows(rows *sql.Rows, withOverlap bool) ([]models.MovieRow, error) {
	defer rows.Close()
	var out []models.MovieRow
	for rows.Next() {
		row, err := scanMovieRow(rows, withOverlap)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// FindByTitle returns movies whose title matches the given text (LIKE match),
// most-rated first so the best-known title wins ties.
func (s *SQLiteStore) FindByTitle(ctx context.Context, title string, limit int) ([]models.MovieRow, error) {
	pattern := "%" + strings.TrimSpace(title) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+`
		 FROM movies m
		 WHERE m.title LIKE ?
		 ORDER BY m.num_ratings DESC, m.avg_rating DESC, m.title ASC
		 LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("title lookup failed: %w", err)
	}
	return collectMovieRows(rows, false)
}

// Filter returns movies matching the filter, ordered by rating desc,
// num_ratings desc, title asc.
func (s *SQLiteStore) Filter(ctx context.Context, f MovieFilter) ([]models.MovieRow, error) {
	var where []string
	var args []interface{}

	if len(f.Genres) > 0 {
		placeholders := strings.Repeat("?,", len(f.Genres))
		placeholders = placeholders[:len(placeholders)-1]
		where = append(where, `EXISTS (
			SELECT 1 FROM movie_genres mg JOIN genres g ON g.genre_id = mg.genre_id
			WHERE mg.movie_id = m.movie_id AND g.genre_name IN (`+placeholders+`)
		)`)
		for _, g := range f.Genres {
			args = append(args, g)
		}
	}
	if f.Year != 0 {
		where = append(where, `CAST(substr(m.release_date, -4) AS INTEGER) = ?`)
		args = append(args, f.Year)
	} else {
		if f.YearFrom != 0 {
			where = append(where, `CAST(substr(m.release_date, -4) AS INTEGER) >= ?`)
			args = append(args, f.YearFrom)
		}
		if f.YearTo != 0 {
			where = append(where, `CAST(substr(m.release_date, -4) AS INTEGER) <= ?`)
			args = append(args, f.YearTo)
		}
	}
	if f.MinRating != nil {
		where = append(where, `m.avg_rating >= ?`)
		args = append(args, *f.MinRating)
	}
	if f.MaxRating != nil {
		where = append(where, `m.avg_rating <= ?`)
		args = append(args, *f.MaxRating)
	}

	query := `SELECT ` + movieColumns + ` FROM movies m`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY m.avg_rating DESC, m.num_ratings DESC, m.title ASC LIMIT ?`
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter query failed: %w", err)
	}
	return collectMovieRows(rows, false)
}

// SimilarByGenres ranks other movies by shared-genre count with the seed,
// excluding the seed itself.
func (s *SQLiteStore) SimilarByGenres(ctx context.Context, seedID int64, limit int) ([]models.MovieRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+`, COUNT(DISTINCT mg0.genre_id) AS overlap
		 FROM movie_genres mg0
		 JOIN movie_genres mg1 ON mg1.genre_id = mg0.genre_id AND mg1.movie_id != mg0.movie_id
		 JOIN movies m ON m.movie_id = mg1.movie_id
		 WHERE mg0.movie_id = ?
		 GROUP BY m.movie_id
		 ORDER BY overlap DESC, m.avg_rating DESC, m.num_ratings DESC, m.title ASC
		 LIMIT ?`,
		seedID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	return collectMovieRows(rows, true)
}

// Titles lists all (id, title, num_ratings) entries.
func (s *SQLiteStore) Titles(ctx context.Context) ([]TitleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie_id, title, num_ratings FROM movies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TitleEntry
	for rows.Next() {
		var e TitleEntry
		if err := rows.Scan(&e.MovieID, &e.Title, &e.NumRatings); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats returns catalog summary counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*models.CatalogStats, error) {
	stats := &models.CatalogStats{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&stats.MovieCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&stats.RatingCount); err != nil {
		return nil, err
	}

	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM ratings GROUP BY rating ORDER BY COUNT(*) DESC LIMIT 1`,
	).Scan(&score)
	if err == nil {
		stats.MostCommonRating = score
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	var title string
	var count int64
	err = s.db.QueryRowContext(ctx,
		`SELECT m.title, COUNT(*) AS c
		 FROM ratings r JOIN movies m ON m.movie_id = r.movie_id
		 GROUP BY r.movie_id ORDER BY c DESC LIMIT 1`,
	).Scan(&title, &count)
	if err == nil {
		stats.MostRatedTitle = title
		stats.MostRatedCount = count
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}

// ReplaceMovies upserts movies and their genre links in one transaction.
// Genre names are seeded into the genres table as they appear.
func (s *SQLiteStore) ReplaceMovies(ctx context.Context, movies []IngestMovie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	movieStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO movies (movie_id, title, release_date) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer movieStmt.Close()

	genreStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO genres (genre_name) VALUES (?)`)
	if err != nil {
		return err
	}
	defer genreStmt.Close()

	clearStmt, err := tx.PrepareContext(ctx,
		`DELETE FROM movie_genres WHERE movie_id = ?`)
	if err != nil {
		return err
	}
	defer clearStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO movie_genres (movie_id, genre_id)
		 SELECT ?, genre_id FROM genres WHERE genre_name = ?`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for _, m := range movies {
		if _, err := movieStmt.ExecContext(ctx, m.MovieID, m.Title, m.ReleaseDate); err != nil {
			return fmt.Errorf("insert movie %d: %w", m.MovieID, err)
		}
		if _, err := clearStmt.ExecContext(ctx, m.MovieID); err != nil {
			return err
		}
		for _, g := range m.Genres {
			if _, err := genreStmt.ExecContext(ctx, g); err != nil {
				return err
			}
			if _, err := linkStmt.ExecContext(ctx, m.MovieID, g); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ReplaceRatings replaces the ratings table contents in one transaction.
func (s *SQLiteStore) ReplaceRatings(ctx context.Context, ratings []IngestRating) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, unix_time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ratings {
		if _, err := stmt.ExecContext(ctx, r.UserID, r.MovieID, r.Rating, r.UnixTime); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RebuildRatingStats recomputes avg_rating (3 decimals) and num_ratings for
// every movie from the ratings table. Movies with no ratings keep a NULL
// average and a zero count.
func (s *SQLiteStore) RebuildRatingStats(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE movies SET
			avg_rating = (SELECT ROUND(AVG(rating), 3) FROM ratings r WHERE r.movie_id = movies.movie_id),
			num_ratings = (SELECT COUNT(*) FROM ratings r WHERE r.movie_id = movies.movie_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to rebuild rating stats: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
