package localfiles

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/meshare/meshare/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSoloTracker(t *testing.T, settings *config.Settings) *election.Actor {
	t.Helper()
	reg := registry.NewInMemory()

	// RegisterLocalFiles reaches the tracker over RPC even when that tracker
	// is this peer, so the actor's own endpoint must answer.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	actor := election.New(epoch.Endpoint(ln.Addr().String()), "solo", settings, reg, rpc.NewClient())
	go func() { _ = http.Serve(ln, rpc.NewServer(actor).Handler()) }()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go actor.Run(ctx)

	actor.NotifyDetectionExpired(ctx)
	require.Eventually(t, func() bool { return actor.Status(ctx).IsTracker }, time.Second, 5*time.Millisecond)
	return actor
}

func TestFullScanRegistersEveryFile(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("localfiles")
	require.NoError(t, err)
	defer cleanup()

	_, err = testutil.CreateTestFile(dir, "a.txt", 128, false)
	require.NoError(t, err)
	_, err = testutil.CreateTestFile(dir, "b.txt", 256, false)
	require.NoError(t, err)

	settings := config.DefaultSettings()
	settings.Cohort.TotalPeersExpected = 1
	actor := newSoloTracker(t, settings)

	w := New(dir, actor, settings)
	w.scanAndRegister(context.Background(), false)

	index := actor.Index().List()
	assert.Contains(t, index, "a.txt")
	assert.Contains(t, index, "b.txt")
}

func TestIncrementalScanAddsNewFilesAndSweepsDeletions(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("localfiles")
	require.NoError(t, err)
	defer cleanup()

	_, err = testutil.CreateTestFile(dir, "a.txt", 64, false)
	require.NoError(t, err)

	settings := config.DefaultSettings()
	settings.Cohort.TotalPeersExpected = 1
	actor := newSoloTracker(t, settings)

	w := New(dir, actor, settings)
	w.scanAndRegister(context.Background(), false)

	_, err = testutil.CreateTestFile(dir, "c.txt", 64, false)
	require.NoError(t, err)
	w.scanAndRegister(context.Background(), true)

	index := actor.Index().List()
	assert.Contains(t, index, "a.txt")
	assert.Contains(t, index, "c.txt")

	// Deleting a.txt from disk is detected by the next scan, which falls
	// back to a full sweep so the deletion reaches the index.
	require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))
	w.scanAndRegister(context.Background(), true)
	assert.NotContains(t, actor.Index().List(), "a.txt", "a detected deletion must trigger a full sweep")
}
