package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/otakulab/anirec/internal/anime"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite title index.
// The catalog JSONL stays the source of truth; this database is a rebuildable cache.
type DB struct {
	db *sql.DB
}

// TitleHit is one row returned by a title search.
type TitleHit struct {
	Name    string   `json:"name"`
	Cluster int      `json:"cluster"`
	Poster  string   `json:"poster"`
	Genres  []string `json:"genres"`
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS titles (
			name TEXT PRIMARY KEY,
			cluster INTEGER NOT NULL,
			poster TEXT,
			genres_json TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS titles_fts USING fts5(
			name,
			genres_text
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// metaSourceKey names the meta row holding the catalog fingerprint.
const metaSourceKey = "source"

// RebuildFromItems clears the index, reloads it from catalog rows and records
// source as the fingerprint of the catalog they came from.
// Runs in a single transaction so a failed rebuild leaves the old index intact.
func (d *DB) RebuildFromItems(items []anime.Item, source string) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM titles"); err != nil {
		return 0, fmt.Errorf("clearing titles table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM titles_fts"); err != nil {
		return 0, fmt.Errorf("clearing titles_fts table: %w", err)
	}

	titlesStmt, err := tx.Prepare(`INSERT INTO titles (name, cluster, poster, genres_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing titles insert: %w", err)
	}
	defer titlesStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO titles_fts (name, genres_text) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, item := range items {
		genres := item.VisibleGenres()
		genresJSON, err := json.Marshal(genres)
		if err != nil {
			return 0, fmt.Errorf("marshaling genres for %s: %w", item.Name, err)
		}

		if _, err := titlesStmt.Exec(item.Name, item.Cluster, item.Poster, string(genresJSON)); err != nil {
			return 0, fmt.Errorf("inserting title %s: %w", item.Name, err)
		}
		if _, err := ftsStmt.Exec(item.Name, strings.Join(genres, " ")); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", item.Name, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, metaSourceKey, source); err != nil {
		return 0, fmt.Errorf("recording source: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(items), nil
}

// SearchNames finds titles whose name matches every word of query as a prefix.
// Results are ordered by FTS5 relevance.
func (d *DB) SearchNames(query string, limit int) ([]TitleHit, error) {
	ftsQuery := prepareNameQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT t.name, t.cluster, t.poster, t.genres_json
		FROM titles_fts f
		JOIN titles t ON t.name = f.name
		WHERE titles_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?`, "name:"+ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching titles: %w", err)
	}
	defer rows.Close()

	var hits []TitleHit
	for rows.Next() {
		var hit TitleHit
		var poster sql.NullString
		var genresJSON string
		if err := rows.Scan(&hit.Name, &hit.Cluster, &poster, &genresJSON); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		hit.Poster = poster.String
		if err := json.Unmarshal([]byte(genresJSON), &hit.Genres); err != nil {
			return nil, fmt.Errorf("parsing genres for %s: %w", hit.Name, err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// prepareNameQuery turns free text into an FTS5 query.
// Each word is quoted and given a prefix wildcard; words are ANDed
// so "attack tit" matches "Attack on Titan".
func prepareNameQuery(query string) string {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return ""
	}

	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}
	return "(" + strings.Join(terms, " AND ") + ")"
}

// Count returns the number of indexed titles.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&count)
	return count, err
}

// Source returns the fingerprint recorded by the last rebuild,
// or "" if the index has never been built.
func (d *DB) Source() (string, error) {
	var source string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaSourceKey).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return source, nil
}
