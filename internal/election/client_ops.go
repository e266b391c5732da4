package election

import (
	"context"
	"fmt"

	"github.com/meshare/meshare/internal/rpc"
)

// RegisterLocalFiles sends the local file watcher's current snapshot to
// whichever endpoint is currently known as tracker, following the
// not_tracker / epoch_too_low redirection rules of spec.md section 4.7.
// incremental selects register_files's add-only mode over a full sweep.
func (a *Actor) RegisterLocalFiles(ctx context.Context, files []string, incremental bool) error {
	// Record locally known files regardless of whether the round trip below
	// succeeds: this is the peer's own knowledge, used to seed the index if
	// it later becomes tracker itself (section 4.4), not an ack from the
	// remote tracker.
	a.submit(ctx, localFilesCmd{files: files, incremental: incremental})

	st := a.Status(ctx)
	target := st.KnownTrackerEndpoint
	if st.IsTracker {
		target = st.SelfEndpoint
	}
	if target == "" {
		return fmt.Errorf("election: no known tracker to register files with")
	}

	rctx, cancel := context.WithTimeout(ctx, a.settings.Timing.RegisterTimeout)
	defer cancel()

	resp, err := a.client.RegisterFiles(rctx, target, rpc.RegisterFilesRequest{
		PeerID:      st.PeerID,
		Endpoint:    st.SelfEndpoint,
		Files:       files,
		PeerEpoch:   st.KnownTrackerEpoch,
		Incremental: incremental,
	})
	if err != nil {
		return err
	}
	return a.reconcileResponse(ctx, resp)
}

// QueryFile asks the known tracker who holds name.
func (a *Actor) QueryFile(ctx context.Context, name string) ([]rpc.Holder, error) {
	st := a.Status(ctx)
	target := st.KnownTrackerEndpoint
	if st.IsTracker {
		target = st.SelfEndpoint
	}
	if target == "" {
		return nil, fmt.Errorf("election: no known tracker to query")
	}

	rctx, cancel := context.WithTimeout(ctx, a.settings.Timing.RegisterTimeout)
	defer cancel()

	resp, err := a.client.QueryFile(rctx, target, rpc.QueryFileRequest{Name: name, PeerEpoch: st.KnownTrackerEpoch})
	if err != nil {
		return nil, err
	}
	if err := a.reconcileResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp.Holders, nil
}

// ListIndex asks the known tracker for its full index.
func (a *Actor) ListIndex(ctx context.Context) (map[string][]rpc.Holder, error) {
	st := a.Status(ctx)
	target := st.KnownTrackerEndpoint
	if st.IsTracker {
		target = st.SelfEndpoint
	}
	if target == "" {
		return nil, fmt.Errorf("election: no known tracker to list")
	}

	rctx, cancel := context.WithTimeout(ctx, a.settings.Timing.RegisterTimeout)
	defer cancel()

	resp, err := a.client.ListIndex(rctx, target, rpc.ListIndexRequest{PeerEpoch: st.KnownTrackerEpoch})
	if err != nil {
		return nil, err
	}
	if err := a.reconcileResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp.Index, nil
}

// reconcileResponse folds a not_tracker or epoch_too_low reply back into
// our known-tracker view (only ever advancing known_tracker_epoch) and
// turns the redirection into an error for the immediate caller, who is
// expected to retry.
func (a *Actor) reconcileResponse(ctx context.Context, resp rpc.Response) error {
	switch resp.Status {
	case rpc.StatusOK:
		return nil
	case rpc.StatusNotTracker:
		a.submit(ctx, adoptTrackerCmd{endpoint: resp.KnownTrackerEndpoint, epoch: resp.KnownTrackerEpoch})
		return fmt.Errorf("election: not the tracker, now pointing at %s (epoch %d)", resp.KnownTrackerEndpoint, resp.KnownTrackerEpoch)
	case rpc.StatusEpochTooLow:
		a.submit(ctx, adoptTrackerCmd{epoch: resp.KnownTrackerEpoch})
		return fmt.Errorf("election: local epoch view was stale, tracker is now at epoch %d", resp.KnownTrackerEpoch)
	default:
		return fmt.Errorf("election: unrecognized response status %q", resp.Status)
	}
}

// NotifyDetectionExpired is called by the failure detector when its
// randomized timer fires without an intervening heartbeat.
func (a *Actor) NotifyDetectionExpired(ctx context.Context) {
	a.submit(ctx, detectionExpiredCmd{})
}
