// Package store persists scraped postings and search history in sqlite.
// Match scores are deliberately not stored; they are recomputed per request.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gkotua/jobradar/internal/jobs"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  UNIQUE(url, title)
);
CREATE INDEX IF NOT EXISTS idx_jobs_first_seen ON jobs(first_seen DESC);

CREATE TABLE IF NOT EXISTS searches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL DEFAULT '',
  message TEXT NOT NULL,
  requirements TEXT NOT NULL DEFAULT '{}',
  matched INTEGER NOT NULL DEFAULT 0,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
`)
	return err
}

// SaveJobs inserts postings, skipping duplicates by (url, title). It returns
// the number of new rows.
func (s *Store) SaveJobs(ctx context.Context, list *jobs.Jobs) (int, error) {
	if list == nil || list.Len() == 0 {
		return 0, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)

	inserted := 0
	for _, job := range list.Items {
		res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(title, company, location, description, url, salary, source, first_seen)
VALUES(?,?,?,?,?,?,?,?);`,
			job.Title, job.Company, job.Location, job.Description, job.URL, job.Salary, job.Source, now)
		if err != nil {
			return inserted, fmt.Errorf("insert job: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// RecentJobs returns the most recently seen postings, newest first.
func (s *Store) RecentJobs(ctx context.Context, limit int) (*jobs.Jobs, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT title, company, location, description, url, salary, source
FROM jobs
ORDER BY first_seen DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := &jobs.Jobs{}
	for rows.Next() {
		var j jobs.Job
		if err := rows.Scan(&j.Title, &j.Company, &j.Location, &j.Description, &j.URL, &j.Salary, &j.Source); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out.Append(j)
	}
	return out, rows.Err()
}

// LogSearch records a processed search request with its extracted
// requirements and outcome.
func (s *Store) LogSearch(ctx context.Context, userID, message string, req jobs.Requirements, matched int, took time.Duration) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO searches(user_id, message, requirements, matched, duration_ms, created_at)
VALUES(?,?,?,?,?,?);`,
		userID, message, string(reqJSON), matched, took.Milliseconds(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// SearchCount returns the number of recorded searches.
func (s *Store) SearchCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count searches: %w", err)
	}
	return count, nil
}
