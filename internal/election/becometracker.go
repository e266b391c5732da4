package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/utils"
)

// becomeTracker carries out spec.md section 4.4's become-tracker sequence:
// remove any stale registration for this epoch left by a different
// endpoint, claim the role locally, seed a fresh file index with this
// peer's own local files, then register the well-known TRACKER_EPOCH_<e>
// name — stepping back down if that registration fails.
func (a *Actor) becomeTracker(ctx context.Context, e epoch.Epoch) {
	s := a.state
	name := registry.TrackerEpochName(uint64(e))

	if existing, err := a.reg.Lookup(name); err == nil && epoch.Endpoint(existing) != s.SelfEndpoint {
		if err := a.reg.Unregister(name); err != nil {
			utils.Debug("election", "failed to remove stale tracker registration for epoch %d: %v", e, err)
		}
	}

	s.CandidateActive = false
	s.IsTracker = true
	s.KnownTrackerEndpoint = s.SelfEndpoint
	s.KnownTrackerEpoch = e

	a.index.Reset()
	localFiles := make([]string, 0, len(s.LocalFiles))
	for f := range s.LocalFiles {
		localFiles = append(localFiles, f)
	}
	a.index.RegisterFull(s.PeerID, s.SelfEndpoint, localFiles)

	if err := a.reg.Register(name, string(s.SelfEndpoint)); err != nil {
		utils.Debug("election", "failed to register tracker name for epoch %d, stepping down: %v", e, err)
		a.stepDown(ctx, e, "failed to register tracker name")
		return
	}
	utils.Debug("election", "peer %s became tracker for epoch %d", s.PeerID, e)
}
