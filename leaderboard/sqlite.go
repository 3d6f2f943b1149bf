package leaderboard

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS highscores (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT    NOT NULL,
	score INTEGER NOT NULL
)`

// SQLiteStore keeps the leaderboard in a highscores table.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Load() []Entry {
	rows, err := s.db.Query(`SELECT name, score FROM highscores ORDER BY score DESC, id ASC LIMIT ?`, MaxEntries)
	if err != nil {
		s.logger.Warn("unable to query highscores", slog.String("error", err.Error()))
		return []Entry{}
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			s.logger.Warn("unable to scan highscore", slog.String("error", err.Error()))
			return []Entry{}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("unable to read highscores", slog.String("error", err.Error()))
		return []Entry{}
	}
	return entries
}

// Save replaces the whole table with entries.
func (s *SQLiteStore) Save(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM highscores`); err != nil {
		return fmt.Errorf("clearing highscores: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(`INSERT INTO highscores (name, score) VALUES (?, ?)`, e.Name, e.Score); err != nil {
			return fmt.Errorf("inserting %q: %w", e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
