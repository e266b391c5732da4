package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/rpc"
)

// command is one unit of work the actor loop applies. Every command either
// answers a reply channel, mutates state directly, or both.
type command interface {
	apply(ctx context.Context, a *Actor)
}

type pingCmd struct{ reply chan error }

func (c pingCmd) apply(_ context.Context, _ *Actor) { c.reply <- nil }

type voteCmd struct {
	req   rpc.VoteRequest
	reply chan bool
}

func (c voteCmd) apply(_ context.Context, a *Actor) { c.reply <- a.handleVoteRequest(c.req) }

type heartbeatCmd struct {
	req   rpc.HeartbeatRequest
	reply chan error
}

func (c heartbeatCmd) apply(ctx context.Context, a *Actor) {
	a.handleHeartbeat(ctx, c.req)
	select {
	case a.heartbeatSeen <- struct{}{}:
	default:
	}
	c.reply <- nil
}

type registerFilesCmd struct {
	req   rpc.RegisterFilesRequest
	reply chan rpc.Response
}

func (c registerFilesCmd) apply(_ context.Context, a *Actor) { c.reply <- a.handleRegisterFiles(c.req) }

type queryFileCmd struct {
	req   rpc.QueryFileRequest
	reply chan rpc.Response
}

func (c queryFileCmd) apply(_ context.Context, a *Actor) { c.reply <- a.handleQueryFile(c.req) }

type listIndexCmd struct {
	req   rpc.ListIndexRequest
	reply chan rpc.Response
}

func (c listIndexCmd) apply(_ context.Context, a *Actor) { c.reply <- a.handleListIndex(c.req) }

// detectionExpiredCmd is sent by the failure detector when no heartbeat has
// arrived within its randomized window.
type detectionExpiredCmd struct{}

func (c detectionExpiredCmd) apply(ctx context.Context, a *Actor) { a.onDetectionExpired(ctx) }

// voteTallyCmd reports the outcome of a candidacy's vote fan-out, run on a
// helper goroutine so the actor loop is never blocked on an RPC call.
type voteTallyCmd struct {
	candidateEpoch epoch.Epoch
	granted        int
	total          int
}

func (c voteTallyCmd) apply(ctx context.Context, a *Actor) { a.onVoteTally(ctx, c) }

// discoveryResultCmd reports the outcome of the startup discovery scan.
type discoveryResultCmd struct {
	trackerEndpoint epoch.Endpoint
	trackerEpoch    epoch.Epoch
	found           bool
}

func (c discoveryResultCmd) apply(ctx context.Context, a *Actor) { a.onDiscoveryResult(ctx, c) }

// localFilesCmd records this peer's own locally known file set, independent
// of whether the outbound register_files RPC to the tracker succeeds: it is
// local knowledge, used to seed the index if this peer later becomes
// tracker itself (section 4.4). It mirrors fileindex's own add-only vs.
// full-replace semantics.
type localFilesCmd struct {
	files       []string
	incremental bool
}

func (c localFilesCmd) apply(_ context.Context, a *Actor) {
	s := a.state
	if !c.incremental {
		s.LocalFiles = make(map[string]bool, len(c.files))
	}
	for _, f := range c.files {
		s.LocalFiles[f] = true
	}
}

// statusCmd reads a point-in-time snapshot of the election state.
type statusCmd struct{ reply chan Status }

func (c statusCmd) apply(_ context.Context, a *Actor) {
	s := a.state
	c.reply <- Status{
		PeerID:               s.PeerID,
		SelfEndpoint:         s.SelfEndpoint,
		IsTracker:            s.IsTracker,
		KnownTrackerEndpoint: s.KnownTrackerEndpoint,
		KnownTrackerEpoch:    s.KnownTrackerEpoch,
		CandidateActive:      s.CandidateActive,
		CandidateEpoch:       s.CandidateEpoch,
	}
}

// adoptTrackerCmd updates the known tracker view from a response another
// peer gave us (not_tracker / epoch_too_low), but only if it advances our
// knowledge: known_tracker_epoch is non-decreasing.
type adoptTrackerCmd struct {
	endpoint epoch.Endpoint
	epoch    epoch.Epoch
}

func (c adoptTrackerCmd) apply(ctx context.Context, a *Actor) {
	s := a.state
	if c.epoch <= s.KnownTrackerEpoch {
		return
	}
	wasTracker := s.IsTracker
	registeredEpoch := s.KnownTrackerEpoch
	s.KnownTrackerEpoch = c.epoch
	if c.endpoint != "" {
		s.KnownTrackerEndpoint = c.endpoint
	}
	s.CandidateActive = false
	if wasTracker && c.endpoint != s.SelfEndpoint {
		a.stepDown(ctx, registeredEpoch, "learned of a higher-epoch tracker via an RPC response")
	}
}
