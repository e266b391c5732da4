package download

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meshare/meshare/internal/utils"
)

// History is a local, non-authoritative audit log of chunk fetches this
// peer has performed. It never feeds back into the tracker's file index or
// the election state: spec.md section 1 excludes tracker-state persistence
// entirely, and this log exists purely so a peer can answer "what have I
// downloaded" after a restart.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if necessary) the fetch-history database at
// path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS fetches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name TEXT NOT NULL,
	peer_id TEXT NOT NULL,
	bytes INTEGER NOT NULL,
	fetched_at TIMESTAMP NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error { return h.db.Close() }

// Record appends one fetch event.
func (h *History) Record(ctx context.Context, fileName, peerID string, bytes int64, fetchedAt time.Time) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO fetches (file_name, peer_id, bytes, fetched_at) VALUES (?, ?, ?, ?)`,
		fileName, peerID, bytes, fetchedAt)
	if err != nil {
		utils.Debug("download", "failed to record fetch history for %s: %v", fileName, err)
	}
	return err
}

// Entry is one row of fetch history.
type Entry struct {
	FileName  string
	PeerID    string
	Bytes     int64
	FetchedAt time.Time
}

// Recent returns the most recent fetches, newest first, capped at limit.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT file_name, peer_id, bytes, fetched_at FROM fetches ORDER BY fetched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.FileName, &e.PeerID, &e.Bytes, &e.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
