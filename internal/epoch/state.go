package epoch

// State holds the per-peer fields from the data model. It is owned
// exclusively by a single actor goroutine (see internal/election) and is
// therefore never guarded by its own lock — the actor's command loop is the
// serialization point the design notes ask for.
type State struct {
	SelfEndpoint Endpoint
	PeerID       string

	IsTracker            bool
	KnownTrackerEndpoint Endpoint // "" if none
	KnownTrackerEpoch    Epoch

	// VotedInEpoch records at most one vote per epoch, with one permitted
	// override per R3b.
	VotedInEpoch map[Epoch]Endpoint

	CandidateActive bool
	CandidateEpoch  Epoch

	// VotesReceived tallies grants for the peer's own candidacy.
	VotesReceived map[Epoch]map[Endpoint]bool

	// HighestCandidacyEver is the monotone ceiling used to pick the next
	// candidacy epoch.
	HighestCandidacyEver Epoch

	LocalFiles map[string]bool
}

// NewState builds the initial per-peer state for a freshly started peer.
func NewState(self Endpoint, peerID string) *State {
	return &State{
		SelfEndpoint:  self,
		PeerID:        peerID,
		VotedInEpoch:  make(map[Epoch]Endpoint),
		VotesReceived: make(map[Epoch]map[Endpoint]bool),
		LocalFiles:    make(map[string]bool),
	}
}

// HasTracker reports whether the peer currently accepts a tracker reference.
func (s *State) HasTracker() bool {
	return s.KnownTrackerEndpoint != ""
}

// ClearTracker drops the current tracker reference while preserving
// KnownTrackerEpoch as the floor for the next election (invariant 1).
func (s *State) ClearTracker() {
	s.KnownTrackerEndpoint = ""
}

// NextCandidacyEpoch computes the epoch initiate_election would contest,
// per spec.md section 4.3.
func (s *State) NextCandidacyEpoch() Epoch {
	highest := Max(s.KnownTrackerEpoch, s.HighestCandidacyEver)
	for e := range s.VotedInEpoch {
		highest = Max(highest, e)
	}
	return highest + 1
}

// PruneVotesBelow discards voted_in_epoch entries for epochs strictly below
// floor, per the heartbeat reconciliation rule in section 4.6.
func (s *State) PruneVotesBelow(floor Epoch) {
	for e := range s.VotedInEpoch {
		if e < floor {
			delete(s.VotedInEpoch, e)
		}
	}
}
