// Package telemetry records simulation runs to SQLite and exposes a
// Prometheus-compatible metrics endpoint.
package telemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/agrodyn/fieldsim/internal/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	run_id       TEXT NOT NULL REFERENCES runs(run_id),
	tick         INTEGER NOT NULL,
	harvested    INTEGER NOT NULL,
	active_tasks INTEGER NOT NULL,
	queued_tasks INTEGER NOT NULL,
	data         TEXT NOT NULL,
	PRIMARY KEY (run_id, tick)
);
`

// Recorder persists run snapshots to a SQLite database.
type Recorder struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// OpenRecorder opens (and if needed initializes) the run database.
func OpenRecorder(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init run db: %w", err)
	}
	return &Recorder{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error { return r.db.Close() }

// StartRun registers a new run and returns its ULID.
func (r *Recorder) StartRun(cfg sim.Config) (string, error) {
	runID := ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
	_, err := r.db.Exec(
		`INSERT INTO runs (run_id, started_at, seed, width, height) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), cfg.Seed, cfg.Width, cfg.Height,
	)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return runID, nil
}

// RecordSnapshot stores one tick's snapshot under the run.
func (r *Recorder) RecordSnapshot(runID string, snap sim.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO snapshots (run_id, tick, harvested, active_tasks, queued_tasks, data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, snap.Tick, snap.Harvested, snap.ActiveTasks, snap.QueuedTasks, string(data),
	)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// RunSummary describes one recorded run.
type RunSummary struct {
	RunID     string `json:"run_id"`
	StartedAt string `json:"started_at"`
	Seed      int64  `json:"seed"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Ticks     int    `json:"ticks"`
	Harvested int    `json:"harvested"`
}

// ListRuns returns recorded runs, newest first.
func (r *Recorder) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT r.run_id, r.started_at, r.seed, r.width, r.height,
		       COALESCE(MAX(s.tick), 0), COALESCE(MAX(s.harvested), 0)
		FROM runs r
		LEFT JOIN snapshots s ON s.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.StartedAt, &s.Seed, &s.Width, &s.Height, &s.Ticks, &s.Harvested); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Snapshots replays the recorded snapshots of one run in tick order.
func (r *Recorder) Snapshots(runID string) ([]sim.Snapshot, error) {
	rows, err := r.db.Query(`SELECT data FROM snapshots WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	defer rows.Close()

	var out []sim.Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snap sim.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
