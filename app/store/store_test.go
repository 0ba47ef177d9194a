package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew(t *testing.T) {
	t.Run("tables created", func(t *testing.T) {
		s := newTestStore(t)
		for _, tbl := range []string{"runs", "results"} {
			var count int
			err := s.db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", tbl)
			require.NoError(t, err)
			assert.Equal(t, 1, count, tbl)
		}
	})

	t.Run("wal mode", func(t *testing.T) {
		s := newTestStore(t)
		var mode string
		require.NoError(t, s.db.Get(&mode, "PRAGMA journal_mode"))
		assert.Equal(t, "wal", mode)
	})

	t.Run("invalid path", func(t *testing.T) {
		s, err := New("/invalid/path/that/does/not/exist/runs.db")
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestSQLite_RecordRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	require.NoError(t, s.RecordRun(ctx, Run{ID: "r1", Trigger: "manual", StartedAt: started}))
	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].FinishedAt.IsZero())

	// finished run replaces the started one
	finished := started.Add(time.Minute)
	require.NoError(t, s.RecordRun(ctx, Run{ID: "r1", Trigger: "manual", StartedAt: started, FinishedAt: finished,
		Passed: 3, Failed: 1}))
	runs, err = s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, Run{ID: "r1", Trigger: "manual", StartedAt: started, FinishedAt: finished, Passed: 3, Failed: 1}, runs[0])
}

func TestSQLite_Results(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	for i, runID := range []string{"r1", "r2", "r3"} {
		started := ts.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.RecordRun(ctx, Run{ID: runID, StartedAt: started}))
		require.NoError(t, s.RecordResult(ctx, Result{RunID: runID, ScenarioID: "transfer-page", Case: "TC982",
			Name: "navigate to transfer", Status: StatusPassed, StartedAt: started, FinishedAt: started.Add(10 * time.Second)}))
		status := StatusPassed
		if i == 2 {
			status = StatusFailed
		}
		require.NoError(t, s.RecordResult(ctx, Result{RunID: runID, ScenarioID: "node-list", Case: "TC1216",
			Status: status, Error: fmt.Sprintf("err %d", i), StartedAt: started, FinishedAt: started.Add(time.Second)}))
	}

	t.Run("last results", func(t *testing.T) {
		last, err := s.LastResults(ctx)
		require.NoError(t, err)
		require.Len(t, last, 2)
		assert.Equal(t, "node-list", last[0].ScenarioID)
		assert.Equal(t, StatusFailed, last[0].Status)
		assert.Equal(t, "r3", last[0].RunID)
		assert.Equal(t, "err 2", last[0].Error)
		assert.Equal(t, "transfer-page", last[1].ScenarioID)
		assert.Equal(t, 10*time.Second, last[1].Duration())
	})

	t.Run("history", func(t *testing.T) {
		hist, err := s.History(ctx, "node-list", 2)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, "r3", hist[0].RunID)
		assert.Equal(t, "r2", hist[1].RunID)

		hist, err = s.History(ctx, "unknown", 10)
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("cleanup", func(t *testing.T) {
		deleted, err := s.Cleanup(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		runs, err := s.Runs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "r3", runs[0].ID)

		var count int
		require.NoError(t, s.db.Get(&count, "SELECT COUNT(*) FROM results"))
		assert.Equal(t, 2, count)

		deleted, err = s.Cleanup(ctx, 10)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}

func TestSQLite_Empty(t *testing.T) {
	s := newTestStore(t)
	last, err := s.LastResults(context.Background())
	require.NoError(t, err)
	assert.Empty(t, last)
	runs, err := s.Runs(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLite_Closed(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.RecordRun(context.Background(), Run{ID: "r1", StartedAt: time.Now()})
	require.Error(t, err)
	_, err = s.LastResults(context.Background())
	require.Error(t, err)
}
