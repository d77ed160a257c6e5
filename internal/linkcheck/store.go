// Package linkcheck probes resource URLs over HTTP and remembers recent
// results in a small SQLite cache, so repeated runs skip links checked
// moments ago.
package linkcheck

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store caches link-check results backed by SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the check cache at the given path.
func OpenStore(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open linkcheck db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate linkcheck db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts the latest check result for a URL.
func (s *Store) Record(url, status string, ok bool) error {
	okInt := 0
	if ok {
		okInt = 1
	}
	_, err := s.db.Exec(`INSERT INTO checks (url, status, ok, checked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			status = excluded.status,
			ok = excluded.ok,
			checked_at = excluded.checked_at`,
		url, status, okInt, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record check: %w", err)
	}
	return nil
}

// Fresh reports whether url passed a check within maxAge.
func (s *Store) Fresh(url string, maxAge time.Duration) bool {
	var okInt int
	var checkedAt string
	row := s.db.QueryRow(`SELECT ok, checked_at FROM checks WHERE url = ?`, url)
	if err := row.Scan(&okInt, &checkedAt); err != nil {
		return false
	}
	if okInt != 1 {
		return false
	}
	at, err := time.Parse(time.RFC3339, checkedAt)
	if err != nil {
		return false
	}
	return time.Since(at) < maxAge
}
