package store

import (
	"database/sql"
	"fmt"

	"github.com/synthify/synthify/internal/model"

	_ "modernc.org/sqlite"
)

// Store keeps the history of completed test results and small bits of app
// metadata in SQLite. The mock-test pipeline stays correct without it; the
// history only feeds the leaderboard across restarts.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		correct_mcqs INTEGER NOT NULL,
		total_mcqs INTEGER NOT NULL,
		time_taken REAL NOT NULL,
		completed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS study_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertResult stores a completed test outcome.
func (s *Store) InsertResult(r model.AnalysisResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (correct_mcqs, total_mcqs, time_taken, completed_at) VALUES (?, ?, ?, ?)`,
		r.CorrectMCQs, r.TotalMCQs, r.TimeTakenSeconds, r.CompletedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListLeaderboardEntries returns all recorded outcomes in leaderboard
// order: ascending by time taken, then by score.
func (s *Store) ListLeaderboardEntries() ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(`SELECT time_taken, correct_mcqs FROM results ORDER BY time_taken, correct_mcqs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.TimeTakenSeconds, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListResults returns all recorded outcomes, newest first. Descriptive
// feedback is not stored per result; only the scored counts survive.
func (s *Store) ListResults() ([]model.AnalysisResult, error) {
	rows, err := s.db.Query(`SELECT correct_mcqs, total_mcqs, time_taken, completed_at FROM results ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.AnalysisResult
	for rows.Next() {
		var r model.AnalysisResult
		if err := rows.Scan(&r.CorrectMCQs, &r.TotalMCQs, &r.TimeTakenSeconds, &r.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ResultCount returns the number of recorded outcomes.
func (s *Store) ResultCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count)
	return count, err
}
