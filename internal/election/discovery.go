package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/utils"
)

// runDiscovery implements the startup discovery scan from spec.md section
// 4.1: walk TRACKER_EPOCH_<e> downward from MAX_EPOCH_SEARCH, ping the first
// registration found, and unregister any that don't answer (they belong to
// a tracker that crashed without a successor ever stepping down cleanly).
// It runs on its own goroutine so the actor loop never blocks on the
// registry or the network.
func runDiscovery(ctx context.Context, a *Actor) {
	for e := a.settings.Cohort.MaxEpochSearch; e >= 1; e-- {
		name := registry.TrackerEpochName(uint64(e))
		endpoint, err := a.reg.Lookup(name)
		if err != nil {
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, a.settings.Timing.PingTimeout)
		err = a.client.Ping(pingCtx, epoch.Endpoint(endpoint))
		cancel()

		if err == nil {
			a.submit(ctx, discoveryResultCmd{
				trackerEndpoint: epoch.Endpoint(endpoint),
				trackerEpoch:    epoch.Epoch(e),
				found:           true,
			})
			return
		}

		utils.Debug("election", "tracker registration for epoch %d at %s did not answer a ping, unregistering", e, endpoint)
		_ = a.reg.Unregister(name)
	}

	a.submit(ctx, discoveryResultCmd{found: false})
}

// onDiscoveryResult applies the outcome of the startup scan: adopt a live
// tracker if one was found, or self-appoint if this is the bootstrap peer
// and the cohort has none yet.
func (a *Actor) onDiscoveryResult(ctx context.Context, c discoveryResultCmd) {
	s := a.state
	if c.found {
		s.KnownTrackerEndpoint = c.trackerEndpoint
		s.KnownTrackerEpoch = c.trackerEpoch
		utils.Debug("election", "adopting discovered tracker for epoch %d at %s", c.trackerEpoch, c.trackerEndpoint)
		return
	}

	if a.settings.Cohort.Bootstrap && s.KnownTrackerEpoch == epoch.NoEpoch {
		if _, err := a.reg.Lookup(registry.TrackerEpochName(1)); err != nil {
			utils.Debug("election", "no tracker found during startup discovery, bootstrap peer self-appointing")
			a.becomeTracker(ctx, 1)
			return
		}
	}

	utils.Debug("election", "no tracker found during startup discovery, waiting for the detection timeout")
}
