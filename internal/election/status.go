package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
)

// Status is a point-in-time snapshot of a peer's election view, used by the
// CLI, the status dashboard, and the local file watcher.
type Status struct {
	PeerID               string
	SelfEndpoint         epoch.Endpoint
	IsTracker            bool
	KnownTrackerEndpoint epoch.Endpoint
	KnownTrackerEpoch    epoch.Epoch
	CandidateActive      bool
	CandidateEpoch       epoch.Epoch
}

// Status returns a snapshot of the current election state.
func (a *Actor) Status(ctx context.Context) Status {
	reply := make(chan Status, 1)
	a.submit(ctx, statusCmd{reply: reply})
	select {
	case st := <-reply:
		return st
	case <-ctx.Done():
		return Status{}
	}
}
