package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/utils"
)

// stepDown carries out spec.md section 4.5's step-down sequence: drop the
// tracker role, remove this peer's own TRACKER_EPOCH_<e> registration if it
// is still the one on file, and restart discovery so the peer finds its way
// back to whatever tracker exists now. e is the epoch this peer was tracker
// for, captured by the caller before any newer epoch overwrote its view.
func (a *Actor) stepDown(ctx context.Context, e epoch.Epoch, reason string) {
	s := a.state
	if !s.IsTracker {
		return
	}
	utils.Debug("election", "peer %s stepping down as tracker: %s", s.PeerID, reason)
	s.IsTracker = false

	name := registry.TrackerEpochName(uint64(e))
	if registered, err := a.reg.Lookup(name); err == nil && epoch.Endpoint(registered) == s.SelfEndpoint {
		if err := a.reg.Unregister(name); err != nil {
			utils.Debug("election", "failed to unregister tracker name for epoch %d while stepping down: %v", e, err)
		}
	}

	utils.Debug("election", "peer %s restarting discovery after stepping down", s.PeerID)
	go runDiscovery(ctx, a)
}
