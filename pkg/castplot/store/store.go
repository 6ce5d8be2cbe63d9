package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
)

// Store persists pipeline runs and their sentence records
type Store interface {
	Close() error

	SaveRun(ctx context.Context, run Run, records []ingest.Record) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Records(ctx context.Context, runID string) ([]ingest.Record, error)
}

// Run describes one pipeline execution
type Run struct {
	ID          string // ULID, sorts by creation time
	SourceURL   string
	CachePath   string
	Labels      []string // character labels in configured order
	RecordCount int
	CreatedAt   time.Time
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a fresh, monotonically increasing ULID.
func NewRunID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ValidRunID reports whether id parses as a ULID.
func ValidRunID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
