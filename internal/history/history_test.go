// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLedgerRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cfg := types.PipelineConfig{BaseFolder: "/theses", TestMode: true}
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(ctx, cfg, started)
	require.NoError(t, err)

	require.NoError(t, store.RecordDocument(ctx, runID, Document{
		Path:        "a.pdf",
		Slug:        "thesis-a",
		Status:      types.StatusWritten,
		ProcessedAt: started.Add(time.Minute),
	}))
	require.NoError(t, store.RecordDocument(ctx, runID, Document{
		Path:        "b.pdf",
		Status:      types.StatusFailed,
		Stage:       "extract",
		Reason:      "no extractable text",
		ProcessedAt: started.Add(2 * time.Minute),
	}))

	report := &types.RunReport{Succeeded: 1, Failed: 1}
	require.NoError(t, store.FinishRun(ctx, runID, report))

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "/theses", runs[0].BaseFolder)
	assert.True(t, runs[0].TestMode)
	assert.Equal(t, 1, runs[0].Succeeded)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, started, runs[0].StartedAt)

	docs, err := store.Documents(ctx, runID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, types.StatusWritten, docs[0].Status)
	assert.Equal(t, "thesis-a", docs[0].Slug)
	assert.Equal(t, types.StatusFailed, docs[1].Status)
	assert.Equal(t, "extract", docs[1].Stage)
	assert.Equal(t, "no extractable text", docs[1].Reason)
}

func TestRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cfg := types.PipelineConfig{BaseFolder: "/theses"}

	first, err := store.BeginRun(ctx, cfg, time.Now())
	require.NoError(t, err)
	second, err := store.BeginRun(ctx, cfg, time.Now())
	require.NoError(t, err)

	runs, err := store.Runs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second, runs[0].ID)
	assert.Greater(t, second, first)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.BeginRun(context.Background(), types.PipelineConfig{}, time.Now())
	assert.NoError(t, err)
}
