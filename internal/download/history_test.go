package download

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/meshare/meshare/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordAndRecent(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("history")
	require.NoError(t, err)
	defer cleanup()

	h, err := OpenHistory(filepath.Join(dir, "fetches.db"))
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()
	require.NoError(t, h.Record(ctx, "a.txt", "peer-b", 1024, now))
	require.NoError(t, h.Record(ctx, "b.txt", "peer-c", 2048, now.Add(time.Second)))

	entries, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.txt", entries[0].FileName, "most recent fetch first")
	assert.Equal(t, "a.txt", entries[1].FileName)
}

func TestHistoryRecentRespectsLimit(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("history")
	require.NoError(t, err)
	defer cleanup()

	h, err := OpenHistory(filepath.Join(dir, "fetches.db"))
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	ctx := context.Background()
	now := time.Unix(1700000000, 0).UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Record(ctx, "f.txt", "peer-b", 10, now.Add(time.Duration(i)*time.Second)))
	}

	entries, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
