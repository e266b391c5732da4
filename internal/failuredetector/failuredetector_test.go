package failuredetector

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredWindowTriggersElection(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Cohort.TotalPeersExpected = 1
	settings.Timing.TrackerDetectionTimeoutMin = 20 * time.Millisecond
	settings.Timing.TrackerDetectionTimeoutMax = 30 * time.Millisecond

	reg := registry.NewInMemory()
	actor := election.New("10.0.0.1:9000", "solo", settings, reg, rpc.NewClient())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go actor.Run(ctx)
	go New(actor, settings).Run(ctx)

	require.Eventually(t, func() bool {
		return actor.Status(ctx).IsTracker
	}, 500*time.Millisecond, 10*time.Millisecond)
}

func TestHeartbeatResetsWindowBeforeExpiry(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Cohort.TotalPeersExpected = 1
	settings.Cohort.Bootstrap = false
	settings.Timing.TrackerDetectionTimeoutMin = 50 * time.Millisecond
	settings.Timing.TrackerDetectionTimeoutMax = 60 * time.Millisecond
	settings.Timing.DiscoveryDelayMin = time.Hour
	settings.Timing.DiscoveryDelayMax = time.Hour

	reg := registry.NewInMemory()
	actor := election.New("10.0.0.1:9000", "follower", settings, reg, rpc.NewClient())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	go actor.Run(ctx)
	det := New(actor, settings)
	go det.Run(ctx)

	// Keep feeding heartbeats faster than the detection window so the peer
	// never starts a candidacy of its own.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			req, _ := http.NewRequestWithContext(rctx, http.MethodPost, "/heartbeat", nil)
			_ = actor.ReceiveHeartbeat(req, rpc.HeartbeatRequest{TrackerEndpoint: "10.0.0.9:9000", TrackerEpoch: 1})
			cancel()
		}
	}

	assert.False(t, actor.Status(context.Background()).CandidateActive)
}
