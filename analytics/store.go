// Package analytics is a lightweight pageview counter backed by SQLite.
// It records one row per path per day and exposes totals for the admin
// dashboard. No cookies, no visitor identifiers.
package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for pageview counts.
type Store struct {
	db *sql.DB
}

// NewStore opens (and initializes) the analytics database at dbPath,
// creating parent directories as needed.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pageviews (
			path TEXT NOT NULL,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (path, day)
		);

		CREATE INDEX IF NOT EXISTS idx_pageviews_day ON pageviews(day);
	`)
	return err
}

// Record increments the counter for path on the given day.
func (s *Store) Record(path string, at time.Time) error {
	day := at.UTC().Format("2006-01-02")
	_, err := s.db.Exec(`
		INSERT INTO pageviews (path, day, count) VALUES (?, ?, 1)
		ON CONFLICT(path, day) DO UPDATE SET count = count + 1
	`, path, day)
	return err
}

// PathTotal is the aggregate view count for a single path.
type PathTotal struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// Totals returns per-path view counts for the last `days` days, most
// viewed first, along with the overall sum.
func (s *Store) Totals(days int) ([]PathTotal, int64, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := s.db.Query(`
		SELECT path, SUM(count) FROM pageviews
		WHERE day >= ?
		GROUP BY path
		ORDER BY SUM(count) DESC
	`, since)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var totals []PathTotal
	var sum int64
	for rows.Next() {
		var t PathTotal
		if err := rows.Scan(&t.Path, &t.Count); err != nil {
			return nil, 0, err
		}
		totals = append(totals, t)
		sum += t.Count
	}
	return totals, sum, rows.Err()
}

// Prune deletes counters older than keepDays.
func (s *Store) Prune(keepDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays).Format("2006-01-02")
	_, err := s.db.Exec(`DELETE FROM pageviews WHERE day < ?`, cutoff)
	return err
}

// StartCleanupScheduler prunes old counters once immediately and then
// every interval. Returns a stop function.
func (s *Store) StartCleanupScheduler(keepDays int, interval time.Duration) func() {
	if err := s.Prune(keepDays); err != nil {
		fmt.Printf("analytics prune error: %v\n", err)
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.Prune(keepDays); err != nil {
					fmt.Printf("analytics prune error: %v\n", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
