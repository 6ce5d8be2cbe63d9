package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	records map[string][]ingest.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		records: make(map[string][]ingest.Record),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run and its records. RecordCount is set from records.
func (s *Store) SaveRun(ctx context.Context, run store.Run, records []ingest.Record) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run ID is required", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("%w: run %s", internalerr.ErrDuplicate, run.ID)
	}

	run.Labels = append([]string(nil), run.Labels...)
	run.RecordCount = len(records)
	s.runs[run.ID] = run

	copied := make([]ingest.Record, len(records))
	for i, r := range records {
		copied[i] = copyRecord(r)
	}
	s.records[run.ID] = copied
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	run.Labels = append([]string(nil), run.Labels...)
	return run, nil
}

// ListRuns returns runs newest first. limit <= 0 returns all of them.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, run := range s.runs {
		run.Labels = append([]string(nil), run.Labels...)
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Records returns the records of a run in index order.
func (s *Store) Records(ctx context.Context, runID string) ([]ingest.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	out := make([]ingest.Record, len(records))
	for i, r := range records {
		out[i] = copyRecord(r)
	}
	return out, nil
}

func copyRecord(r ingest.Record) ingest.Record {
	mentions := make(map[string]bool, len(r.Mentions))
	for k, v := range r.Mentions {
		mentions[k] = v
	}
	r.Mentions = mentions
	return r
}
