package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled, creating the
// file and its parent directory as needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source_url TEXT,
	cache_path TEXT,
	labels TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sentences (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	text TEXT NOT NULL,
	words INTEGER NOT NULL,
	PRIMARY KEY(run_id, idx),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sentence_mentions (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY(run_id, idx, label),
	FOREIGN KEY(run_id, idx) REFERENCES sentences(run_id, idx) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sentence_mentions_label ON sentence_mentions(run_id, label);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a run and its records in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run, records []ingest.Record) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run ID is required", internalerr.ErrInvalidInput)
	}

	labels, err := json.Marshal(run.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", run.ID).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: run %s", internalerr.ErrDuplicate, run.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_url, cache_path, labels, record_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceURL, run.CachePath, string(labels), len(records), run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	sentStmt, err := tx.PrepareContext(ctx, `INSERT INTO sentences (run_id, idx, text, words) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sentStmt.Close()

	mentionStmt, err := tx.PrepareContext(ctx, `INSERT INTO sentence_mentions (run_id, idx, label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer mentionStmt.Close()

	for _, r := range records {
		if _, err := sentStmt.ExecContext(ctx, run.ID, r.Index, r.Text, r.Words); err != nil {
			return fmt.Errorf("insert sentence %d: %w", r.Index, err)
		}
		for label, mentioned := range r.Mentions {
			if !mentioned {
				continue
			}
			if _, err := mentionStmt.ExecContext(ctx, run.ID, r.Index, label); err != nil {
				return fmt.Errorf("insert mention %d/%s: %w", r.Index, label, err)
			}
		}
	}

	return tx.Commit()
}

// GetRun returns a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_url, cache_path, labels, record_count, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return run, err
}

// ListRuns returns runs newest first. limit <= 0 returns all of them.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_url, cache_path, labels, record_count, created_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Records returns the records of a run in index order.
func (s *sqliteStore) Records(ctx context.Context, runID string) ([]ingest.Record, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	mentions, err := s.mentions(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, text, words FROM sentences WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ingest.Record, 0, run.RecordCount)
	for rows.Next() {
		var r ingest.Record
		if err := rows.Scan(&r.Index, &r.Text, &r.Words); err != nil {
			return nil, err
		}
		r.Mentions = make(map[string]bool, len(run.Labels))
		for _, label := range run.Labels {
			r.Mentions[label] = mentions[r.Index][label]
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *sqliteStore) mentions(ctx context.Context, runID string) (map[int]map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, label FROM sentence_mentions WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]map[string]bool)
	for rows.Next() {
		var idx int
		var label string
		if err := rows.Scan(&idx, &label); err != nil {
			return nil, err
		}
		if out[idx] == nil {
			out[idx] = make(map[string]bool)
		}
		out[idx][label] = true
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var (
		run       store.Run
		labels    string
		createdAt string
	)
	if err := row.Scan(&run.ID, &run.SourceURL, &run.CachePath, &labels, &run.RecordCount, &createdAt); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(labels), &run.Labels); err != nil {
		return store.Run{}, fmt.Errorf("decode labels of run %s: %w", run.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("decode created_at of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return run, nil
}
