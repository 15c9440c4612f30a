package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dohr-michael/stagehand/internal/events"
)

// Run is one completed blueprint run.
type Run struct {
	SessionID  string
	Blueprint  string
	Steps      int
	Duration   time.Duration
	Outcome    string
	FinishedAt time.Time
}

// HistoryStore records completed runs in a SQLite database.
type HistoryStore struct {
	db          *sql.DB
	unsubscribe func()
}

// OpenHistory opens (and migrates) the run history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	blueprint   TEXT NOT NULL,
	steps       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Attach subscribes the store to run.completed events on the bus.
func (h *HistoryStore) Attach(bus *events.Bus) {
	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		payload, ok := events.GetRunCompletedPayload(e)
		if !ok {
			return
		}
		err := h.RecordRun(Run{
			SessionID:  payload.SessionID,
			Blueprint:  payload.Blueprint,
			Steps:      payload.Steps,
			Duration:   payload.Duration,
			Outcome:    payload.Outcome,
			FinishedAt: e.Timestamp,
		})
		if err != nil {
			slog.Error("record run", "session", payload.SessionID, "error", err)
		}
	}, events.EventRunCompleted)
}

// RecordRun inserts one completed run.
func (h *HistoryStore) RecordRun(r Run) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO runs (session_id, blueprint, steps, duration_ms, outcome, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Blueprint, r.Steps, r.Duration.Milliseconds(), r.Outcome, r.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *HistoryStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.Query(
		`SELECT session_id, blueprint, steps, duration_ms, outcome, finished_at FROM runs ORDER BY finished_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.SessionID, &r.Blueprint, &r.Steps, &durationMS, &r.Outcome, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close detaches from the bus and closes the database.
func (h *HistoryStore) Close() error {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	return h.db.Close()
}
