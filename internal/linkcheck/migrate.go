package linkcheck

import (
	"database/sql"
	"fmt"
)

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS checks (
		url        TEXT PRIMARY KEY,
		status     TEXT NOT NULL,
		ok         INTEGER NOT NULL CHECK(ok IN (0,1)),
		checked_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create checks table: %w", err)
	}
	return nil
}
