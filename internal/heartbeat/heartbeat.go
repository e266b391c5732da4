// Package heartbeat implements the sending half of spec.md section 4.6: a
// periodic broadcaster that runs only while a peer is tracker. Receiving a
// heartbeat is handled by internal/election, and the failure-detector reset
// it drives lives in internal/failuredetector.
package heartbeat

import (
	"context"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/peerdir"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/meshare/meshare/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Emitter periodically broadcasts a heartbeat to the cohort whenever this
// peer currently holds the tracker role, following the teacher's health
// monitor's poll-then-fan-out shape.
type Emitter struct {
	actor    *election.Actor
	reg      registry.Registry
	client   *rpc.Client
	settings *config.Settings
}

// NewEmitter builds a heartbeat emitter for actor.
func NewEmitter(actor *election.Actor, reg registry.Registry, client *rpc.Client, settings *config.Settings) *Emitter {
	return &Emitter{actor: actor, reg: reg, client: client, settings: settings}
}

// Run blocks, broadcasting on every HeartbeatInterval tick, until ctx is
// cancelled.
func (e *Emitter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.settings.Timing.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.broadcastIfTracker(ctx)
		}
	}
}

func (e *Emitter) broadcastIfTracker(ctx context.Context) {
	st := e.actor.Status(ctx)
	if !st.IsTracker {
		return
	}

	peers, err := peerdir.List(e.reg, st.PeerID)
	if err != nil {
		utils.Debug("heartbeat", "peer list failed, skipping this tick: %v", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, peer := range peers {
		peer := peer
		g.Go(func() error {
			hbCtx, cancel := context.WithTimeout(gctx, e.settings.Timing.HeartbeatTimeout)
			defer cancel()
			if err := e.client.SendHeartbeat(hbCtx, peer, st.SelfEndpoint, st.KnownTrackerEpoch); err != nil {
				utils.Debug("heartbeat", "heartbeat to %s failed: %v", peer, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

