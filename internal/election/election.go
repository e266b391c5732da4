package election

import (
	"context"
	"sync"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/peerdir"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/meshare/meshare/internal/utils"
	"golang.org/x/sync/errgroup"
)

// handleVoteRequest applies the vote-grant rules R1-R4 from spec.md section
// 4.3, evaluated in order, and returns whether the vote was granted.
func (a *Actor) handleVoteRequest(req rpc.VoteRequest) bool {
	s := a.state
	E := req.ElectionEpoch
	C := req.CandidateEndpoint

	// R1: electing for a past epoch while a live tracker is known.
	if s.KnownTrackerEndpoint != "" && E < s.KnownTrackerEpoch {
		utils.Debug("election", "rejecting vote for %s at epoch %d: known tracker already at epoch %d",
			C, E, s.KnownTrackerEpoch)
		return false
	}

	// R2: same epoch as the live tracker, but a different candidate.
	if s.KnownTrackerEndpoint != "" && E == s.KnownTrackerEpoch && C != s.KnownTrackerEndpoint {
		utils.Debug("election", "rejecting vote for %s at epoch %d: known tracker %s already holds it",
			C, E, s.KnownTrackerEndpoint)
		return false
	}

	existing, voted := s.VotedInEpoch[E]

	// R3a: idempotent confirmation of a vote already granted this epoch.
	if voted && existing == C {
		return true
	}

	// R3b: two candidates declared the same epoch simultaneously. A peer
	// that voted for itself yields to a lexicographically smaller candidate
	// and abandons its own candidacy for that epoch. Only a self-vote can be
	// overridden, so each epoch's vote changes at most once.
	if voted && existing == s.SelfEndpoint && C != s.SelfEndpoint && epoch.Less(C, s.SelfEndpoint) {
		s.VotedInEpoch[E] = C
		if s.CandidateActive && s.CandidateEpoch == E {
			s.CandidateActive = false
			delete(s.VotesReceived, E)
		}
		return true
	}

	// R3c: already committed to another candidate, stay with it.
	if voted {
		return false
	}

	// R4: no vote cast yet this epoch, grant it.
	s.VotedInEpoch[E] = C
	return true
}

// startElection begins a new candidacy at the next available epoch, votes
// for self, and fans the request_vote RPC out to the rest of the cohort on
// a helper goroutine so the actor loop never blocks on the network.
func (a *Actor) startElection(ctx context.Context) {
	s := a.state
	candidacyEpoch := s.NextCandidacyEpoch()

	s.CandidateActive = true
	s.CandidateEpoch = candidacyEpoch
	s.HighestCandidacyEver = epoch.Max(s.HighestCandidacyEver, candidacyEpoch)
	s.VotedInEpoch[candidacyEpoch] = s.SelfEndpoint
	s.VotesReceived[candidacyEpoch] = map[epoch.Endpoint]bool{s.SelfEndpoint: true}

	utils.Debug("election", "peer %s starting candidacy for epoch %d", s.PeerID, candidacyEpoch)

	peers, err := peerdir.List(a.reg, s.PeerID)
	if err != nil {
		utils.Debug("election", "candidacy for epoch %d abandoned, peer list failed: %v", candidacyEpoch, err)
		s.CandidateActive = false
		return
	}

	go a.requestVotes(ctx, s.SelfEndpoint, candidacyEpoch, peers)
}

func (a *Actor) requestVotes(ctx context.Context, self epoch.Endpoint, candidacyEpoch epoch.Epoch, peers []epoch.Endpoint) {
	var mu sync.Mutex
	granted := 1 // self-vote already counted

	// The election deadline bounds the whole fan-out; a vote still
	// outstanding when it expires counts as not granted.
	deadlineCtx, cancelDeadline := context.WithTimeout(ctx, a.settings.Timing.ElectionRequestTimeout)
	defer cancelDeadline()

	g, gctx := errgroup.WithContext(deadlineCtx)
	for _, peer := range peers {
		peer := peer
		g.Go(func() error {
			voteCtx, cancel := context.WithTimeout(gctx, a.settings.Timing.VoteTimeout)
			defer cancel()

			ok, err := a.client.RequestVote(voteCtx, peer, self, candidacyEpoch)
			if err != nil {
				utils.Debug("election", "vote request to %s failed: %v", peer, err)
				return nil
			}
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	mu.Lock()
	result := granted
	mu.Unlock()

	a.submit(ctx, voteTallyCmd{candidateEpoch: candidacyEpoch, granted: result, total: len(peers) + 1})
}

// onVoteTally applies the outcome of a candidacy's vote fan-out. A tally
// for an epoch or candidacy that is no longer the active one is stale and
// ignored: something else (a heartbeat, a competing candidacy) already
// resolved it.
func (a *Actor) onVoteTally(ctx context.Context, c voteTallyCmd) {
	s := a.state
	if !s.CandidateActive || s.CandidateEpoch != c.candidateEpoch {
		return
	}

	quorum := a.settings.Cohort.Quorum()
	if c.granted >= quorum {
		a.becomeTracker(ctx, c.candidateEpoch)
		return
	}

	utils.Debug("election", "candidacy for epoch %d fell short of quorum (%d/%d votes, need %d)",
		c.candidateEpoch, c.granted, c.total, quorum)
	s.CandidateActive = false
}

// handleHeartbeat reconciles an incoming receive_heartbeat against our
// current view, per the table in spec.md section 4.6.
func (a *Actor) handleHeartbeat(ctx context.Context, req rpc.HeartbeatRequest) {
	s := a.state

	switch {
	case req.TrackerEpoch > s.KnownTrackerEpoch:
		wasTracker := s.IsTracker
		registeredEpoch := s.KnownTrackerEpoch
		s.KnownTrackerEpoch = req.TrackerEpoch
		s.KnownTrackerEndpoint = req.TrackerEndpoint
		s.CandidateActive = false
		// A non-tracker learning of a higher epoch prunes votes cast for
		// any epoch that heartbeat has now rendered moot.
		s.PruneVotesBelow(req.TrackerEpoch)
		if wasTracker && req.TrackerEndpoint != s.SelfEndpoint {
			a.stepDown(ctx, registeredEpoch, "received a heartbeat from a higher-epoch tracker")
		}

	case req.TrackerEpoch == s.KnownTrackerEpoch:
		if req.TrackerEndpoint == s.KnownTrackerEndpoint {
			return
		}
		// Split-brain: two trackers claim the same epoch. Resolve with the
		// same lexicographic tie-break candidacy uses.
		if epoch.Less(req.TrackerEndpoint, s.KnownTrackerEndpoint) {
			s.KnownTrackerEndpoint = req.TrackerEndpoint
			if s.IsTracker && s.SelfEndpoint != req.TrackerEndpoint {
				a.stepDown(ctx, s.KnownTrackerEpoch, "split-brain reconciliation favored a lower endpoint")
			}
		}

	default:
		utils.Debug("election", "ignoring stale heartbeat for epoch %d, known tracker is at epoch %d",
			req.TrackerEpoch, s.KnownTrackerEpoch)
	}
}

// onDetectionExpired is invoked when the failure detector's randomized
// timer fires without an intervening heartbeat.
func (a *Actor) onDetectionExpired(ctx context.Context) {
	s := a.state
	if s.IsTracker || s.CandidateActive {
		return
	}
	utils.Debug("election", "tracker detection timeout expired, initiating an election")
	s.ClearTracker()
	a.startElection(ctx)
}
