package db

import (
	"fmt"
	"time"

	"uex-hauler/internal/uex"
)

// SaveTerminals replaces the terminal cache with a fresh upstream snapshot.
func (d *DB) SaveTerminals(terminals []uex.Terminal) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM terminal_cache"); err != nil {
		return fmt.Errorf("clear terminal cache: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range terminals {
		if _, err := tx.Exec(`
			INSERT INTO terminal_cache (terminal_id, name, system, code, armistice, is_nqa, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.System, t.Code, t.Armistice, t.IsNQA, now); err != nil {
			return fmt.Errorf("insert terminal %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// LoadTerminals returns the cached terminal snapshot, which may be stale or
// empty when the upstream has never been reached.
func (d *DB) LoadTerminals() []uex.Terminal {
	rows, err := d.sql.Query(`
		SELECT terminal_id, name, system, code, armistice, is_nqa
		  FROM terminal_cache
		 ORDER BY terminal_id
	`)
	if err != nil {
		return []uex.Terminal{}
	}
	defer rows.Close()

	var terminals []uex.Terminal
	for rows.Next() {
		var t uex.Terminal
		rows.Scan(&t.ID, &t.Name, &t.System, &t.Code, &t.Armistice, &t.IsNQA)
		terminals = append(terminals, t)
	}
	if terminals == nil {
		return []uex.Terminal{}
	}
	return terminals
}
