// Package journal keeps a local log of sync attempt outcomes so no
// propagation result is ever silently discarded.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dbFile = "journal.db"

// Entry is one recorded sync attempt.
type Entry struct {
	ID       int64
	At       time.Time
	Feature  string
	EntityID string
	Action   string
	Status   string
	Detail   string
}

// Journal is the sqlite-backed outcome log.
type Journal struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database under dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// WAL keeps concurrent readers cheap; the busy timeout covers the rare
	// case of two invocations writing at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS sync_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			at         DATETIME DEFAULT CURRENT_TIMESTAMP,
			feature    TEXT NOT NULL,
			entity_id  TEXT NOT NULL,
			action     TEXT NOT NULL,
			status     TEXT NOT NULL,
			detail     TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_sync_log_feature ON sync_log(feature, at);
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init sync log: %w", err)
	}

	return &Journal{conn: conn}, nil
}

// Record appends one outcome.
func (j *Journal) Record(feature, entityID, action, status, detail string) error {
	_, err := j.conn.Exec(
		`INSERT INTO sync_log (feature, entity_id, action, status, detail) VALUES (?, ?, ?, ?, ?)`,
		feature, entityID, action, status, detail,
	)
	if err != nil {
		return fmt.Errorf("record sync outcome: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.conn.Query(
		`SELECT id, at, feature, entity_id, action, status, COALESCE(detail, '')
		 FROM sync_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Feature, &e.EntityID, &e.Action, &e.Status, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		e.At = parseTimestamp(at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear drops all recorded outcomes.
func (j *Journal) Clear() error {
	_, err := j.conn.Exec(`DELETE FROM sync_log`)
	return err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func parseTimestamp(s string) time.Time {
	for _, f := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.999999999",
	} {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
