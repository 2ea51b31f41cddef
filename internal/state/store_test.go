package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlcoach/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(testutil.NewTestLogger(t))
	require.NoError(t, s.Open(":memory:"))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	errMsg := "connection refused"
	runs := []LessonRun{
		{Lesson: "crud-cycle", Target: "local", Status: "success", StartedAt: base, DurationMs: 120},
		{Lesson: "joins-sets", Target: "local", Status: "failed", Error: &errMsg, StartedAt: base.Add(time.Minute), DurationMs: 40},
		{Lesson: "crud-cycle", Target: "local", Status: "success", StartedAt: base.Add(2 * time.Minute), DurationMs: 95},
	}
	for _, r := range runs {
		id, err := s.SaveRun(ctx, r)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	all, err := s.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "crud-cycle", all[0].Lesson)
	assert.Equal(t, "joins-sets", all[1].Lesson)

	filtered, err := s.ListRuns(ctx, "crud-cycle", 10)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, "crud-cycle", r.Lesson)
	}

	limited, err := s.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStoreLastRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last, err := s.LastRun(ctx, "never-run")
	require.NoError(t, err)
	assert.Nil(t, last)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	_, err = s.SaveRun(ctx, LessonRun{
		Lesson: "analytics", Target: "local", Status: "failed",
		StartedAt: base, DurationMs: 10,
	})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, LessonRun{
		Lesson: "analytics", Target: "local", Status: "success",
		StartedAt: base.Add(time.Hour), DurationMs: 22,
	})
	require.NoError(t, err)

	last, err = s.LastRun(ctx, "analytics")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "success", last.Status)
}

func TestStoreSavePreservesError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := "duplicate key value violates unique constraint"
	_, err := s.SaveRun(ctx, LessonRun{
		Lesson: "constraints-defaults", Target: "local", Status: "failed",
		Error: &msg, StartedAt: time.Now(), DurationMs: 5,
	})
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, "constraints-defaults", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Error)
	assert.Equal(t, msg, *runs[0].Error)
}

func TestStoreNotOpened(t *testing.T) {
	s := NewStore(nil)
	_, err := s.SaveRun(context.Background(), LessonRun{Lesson: "x"})
	assert.Error(t, err)
	_, err = s.ListRuns(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestMigrateVersion(t *testing.T) {
	s := newTestStore(t)
	v, err := Version(s.db.DB)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, int64(1))
}
