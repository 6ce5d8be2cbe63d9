// Package storetest holds behaviour shared by every store.Store implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/store"
)

// Factory opens an empty store for one test.
type Factory func(t *testing.T) store.Store

// Records returns a small tagged record set.
func Records() []ingest.Record {
	return []ingest.Record{
		{Index: 0, Text: "sherlock holmes smiled", Mentions: map[string]bool{"Sherlock": true, "Watson": false}, Words: 3},
		{Index: 1, Text: " watson frowned", Mentions: map[string]bool{"Sherlock": false, "Watson": true}, Words: 3},
		{Index: 2, Text: " holmes  and watson", Mentions: map[string]bool{"Sherlock": true, "Watson": true}, Words: 5},
		{Index: 3, Text: "", Mentions: map[string]bool{"Sherlock": false, "Watson": false}, Words: 1},
	}
}

// Run exercises the full Store contract.
func Run(t *testing.T, open Factory) {
	t.Run("SaveAndGet", func(t *testing.T) { testSaveAndGet(t, open(t)) })
	t.Run("RecordsRoundTrip", func(t *testing.T) { testRecords(t, open(t)) })
	t.Run("Duplicate", func(t *testing.T) { testDuplicate(t, open(t)) })
	t.Run("MissingID", func(t *testing.T) { testMissingID(t, open(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, open(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testList(t, open(t)) })
	t.Run("EmptyRun", func(t *testing.T) { testEmptyRun(t, open(t)) })
}

func newRun(created time.Time) store.Run {
	return store.Run{
		ID:        store.NewRunID(created),
		SourceURL: "https://www.gutenberg.org/files/1661/1661-0.txt",
		CachePath: "sherlock-holmes.txt",
		Labels:    []string{"Sherlock", "Watson"},
		CreatedAt: created,
	}
}

func testSaveAndGet(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	run := newRun(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	run.RecordCount = 99 // overwritten from the records
	require.NoError(t, st.SaveRun(ctx, run, Records()))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.SourceURL, got.SourceURL)
	assert.Equal(t, run.CachePath, got.CachePath)
	assert.Equal(t, []string{"Sherlock", "Watson"}, got.Labels)
	assert.Equal(t, 4, got.RecordCount)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, run.CreatedAt)
}

func testRecords(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	run := newRun(time.Now())
	require.NoError(t, st.SaveRun(ctx, run, Records()))

	got, err := st.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, Records(), got)
}

func testDuplicate(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	run := newRun(time.Now())
	require.NoError(t, st.SaveRun(ctx, run, Records()))
	err := st.SaveRun(ctx, run, Records())
	assert.ErrorIs(t, err, internalerr.ErrDuplicate)
}

func testMissingID(t *testing.T, st store.Store) {
	defer st.Close()
	err := st.SaveRun(context.Background(), store.Run{}, Records())
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func testNotFound(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	_, err := st.GetRun(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	_, err = st.Records(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func testList(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := newRun(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, st.SaveRun(ctx, run, Records()[:i+1]))
		ids = append(ids, run.ID)
	}

	all, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)
	assert.Equal(t, 3, all[0].RecordCount)

	limited, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, ids[1], limited[1].ID)
}

func testEmptyRun(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	run := newRun(time.Now())
	require.NoError(t, st.SaveRun(ctx, run, nil))

	got, err := st.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
