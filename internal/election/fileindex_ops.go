package election

import "github.com/meshare/meshare/internal/rpc"

// handleRegisterFiles, handleQueryFile and handleListIndex implement the
// epoch-gated file index RPCs of spec.md section 4.7: only the current
// tracker answers with StatusOK, and even the tracker rejects a request
// made against a stale epoch view so the caller learns to refresh it.

func (a *Actor) handleRegisterFiles(req rpc.RegisterFilesRequest) rpc.Response {
	s := a.state
	if !s.IsTracker {
		return rpc.NotTracker(s.KnownTrackerEndpoint, s.KnownTrackerEpoch)
	}
	if req.PeerEpoch < s.KnownTrackerEpoch {
		return rpc.EpochTooLow(s.KnownTrackerEpoch)
	}

	if req.Incremental {
		a.index.RegisterIncremental(req.PeerID, req.Endpoint, req.Files)
	} else {
		a.index.RegisterFull(req.PeerID, req.Endpoint, req.Files)
	}
	return rpc.Response{Status: rpc.StatusOK, RegisteredAtEpoch: s.KnownTrackerEpoch}
}

func (a *Actor) handleQueryFile(req rpc.QueryFileRequest) rpc.Response {
	s := a.state
	if !s.IsTracker {
		return rpc.NotTracker(s.KnownTrackerEndpoint, s.KnownTrackerEpoch)
	}
	if req.PeerEpoch < s.KnownTrackerEpoch {
		return rpc.EpochTooLow(s.KnownTrackerEpoch)
	}
	return rpc.Response{Status: rpc.StatusOK, Holders: a.index.Query(req.Name)}
}

func (a *Actor) handleListIndex(req rpc.ListIndexRequest) rpc.Response {
	s := a.state
	if !s.IsTracker {
		return rpc.NotTracker(s.KnownTrackerEndpoint, s.KnownTrackerEpoch)
	}
	if req.PeerEpoch < s.KnownTrackerEpoch {
		return rpc.EpochTooLow(s.KnownTrackerEpoch)
	}
	return rpc.Response{Status: rpc.StatusOK, Index: a.index.List()}
}
