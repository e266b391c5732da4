package election

import (
	"context"
	"testing"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient grants every vote request and never fails, unless scripted
// otherwise by the test.
type fakeClient struct {
	grant func(candidate epoch.Endpoint, e epoch.Epoch) bool
}

func (f *fakeClient) Ping(context.Context, epoch.Endpoint) error { return nil }

func (f *fakeClient) RequestVote(_ context.Context, _ epoch.Endpoint, candidate epoch.Endpoint, e epoch.Epoch) (bool, error) {
	if f.grant == nil {
		return true, nil
	}
	return f.grant(candidate, e), nil
}

func (f *fakeClient) SendHeartbeat(context.Context, epoch.Endpoint, epoch.Endpoint, epoch.Epoch) error {
	return nil
}

func (f *fakeClient) RegisterFiles(context.Context, epoch.Endpoint, rpc.RegisterFilesRequest) (rpc.Response, error) {
	return rpc.Response{}, nil
}

func (f *fakeClient) QueryFile(context.Context, epoch.Endpoint, rpc.QueryFileRequest) (rpc.Response, error) {
	return rpc.Response{}, nil
}

func (f *fakeClient) ListIndex(context.Context, epoch.Endpoint, rpc.ListIndexRequest) (rpc.Response, error) {
	return rpc.Response{}, nil
}

func newTestActor(t *testing.T, self epoch.Endpoint, quorumOf int, client rpcClient) (*Actor, *registry.InMemory) {
	t.Helper()
	reg := registry.NewInMemory()
	settings := config.DefaultSettings()
	settings.Cohort.TotalPeersExpected = quorumOf
	settings.Timing.VoteTimeout = time.Second

	a := New(self, "peer-"+string(self), settings, reg, nil)
	a.client = client // override the nil *rpc.Client New() built
	return a, reg
}

func TestVoteGrantRules(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})

	// R4: first vote this epoch is granted.
	granted := a.handleVoteRequest(rpc.VoteRequest{CandidateEndpoint: "10.0.0.2:9000", ElectionEpoch: 1})
	assert.True(t, granted)

	// R3a: re-granting the same candidate is idempotent.
	granted = a.handleVoteRequest(rpc.VoteRequest{CandidateEndpoint: "10.0.0.2:9000", ElectionEpoch: 1})
	assert.True(t, granted)

	// R3c: a different candidate for an epoch already voted in is rejected.
	granted = a.handleVoteRequest(rpc.VoteRequest{CandidateEndpoint: "10.0.0.9:9000", ElectionEpoch: 1})
	assert.False(t, granted)

	// R3b: a lexicographically smaller candidate overrides this peer's own
	// self-vote.
	a.state.VotedInEpoch[2] = "10.0.0.1:9000"
	granted = a.handleVoteRequest(rpc.VoteRequest{CandidateEndpoint: "10.0.0.0:9000", ElectionEpoch: 2})
	assert.True(t, granted)
	assert.Equal(t, epoch.Endpoint("10.0.0.0:9000"), a.state.VotedInEpoch[2])
}

func TestVoteRejectedBelowKnownTrackerEpoch(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.state.KnownTrackerEpoch = 5
	a.state.KnownTrackerEndpoint = "10.0.0.5:9000"

	granted := a.handleVoteRequest(rpc.VoteRequest{CandidateEndpoint: "10.0.0.2:9000", ElectionEpoch: 4})
	assert.False(t, granted, "R1: candidacy below the epoch of a known tracker must be rejected")
}

func TestCandidacyReachingQuorumBecomesTracker(t *testing.T) {
	a, reg := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	require.NoError(t, reg.Register(registry.PeerName("peer-b"), "10.0.0.2:9000"))
	require.NoError(t, reg.Register(registry.PeerName("peer-c"), "10.0.0.3:9000"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go a.Run(ctx)
	a.submit(ctx, detectionExpiredCmd{})

	require.Eventually(t, func() bool {
		return a.Status(ctx).IsTracker
	}, time.Second, 10*time.Millisecond)
}

func TestCandidacyFailingQuorumStepsBackToFollower(t *testing.T) {
	denyAll := &fakeClient{grant: func(epoch.Endpoint, epoch.Epoch) bool { return false }}
	a, reg := newTestActor(t, "10.0.0.1:9000", 3, denyAll)
	require.NoError(t, reg.Register(registry.PeerName("peer-b"), "10.0.0.2:9000"))
	require.NoError(t, reg.Register(registry.PeerName("peer-c"), "10.0.0.3:9000"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go a.Run(ctx)
	a.submit(ctx, detectionExpiredCmd{})

	require.Eventually(t, func() bool {
		return !a.Status(ctx).CandidateActive
	}, time.Second, 10*time.Millisecond)
	assert.False(t, a.Status(ctx).IsTracker)
}

func TestHeartbeatAdoptsHigherEpochTracker(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.handleHeartbeat(context.Background(), rpc.HeartbeatRequest{TrackerEndpoint: "10.0.0.5:9000", TrackerEpoch: 7})

	assert.Equal(t, epoch.Epoch(7), a.state.KnownTrackerEpoch)
	assert.Equal(t, epoch.Endpoint("10.0.0.5:9000"), a.state.KnownTrackerEndpoint)
}

func TestHeartbeatStaleEpochIsIgnored(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.state.KnownTrackerEpoch = 10
	a.state.KnownTrackerEndpoint = "10.0.0.5:9000"

	a.handleHeartbeat(context.Background(), rpc.HeartbeatRequest{TrackerEndpoint: "10.0.0.9:9000", TrackerEpoch: 3})

	assert.Equal(t, epoch.Epoch(10), a.state.KnownTrackerEpoch)
	assert.Equal(t, epoch.Endpoint("10.0.0.5:9000"), a.state.KnownTrackerEndpoint)
}

func TestHeartbeatSplitBrainPrefersLowerEndpoint(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.9:9000", 3, &fakeClient{})
	a.state.IsTracker = true
	a.state.KnownTrackerEpoch = 4
	a.state.KnownTrackerEndpoint = "10.0.0.9:9000"

	a.handleHeartbeat(context.Background(), rpc.HeartbeatRequest{TrackerEndpoint: "10.0.0.2:9000", TrackerEpoch: 4})

	assert.Equal(t, epoch.Endpoint("10.0.0.2:9000"), a.state.KnownTrackerEndpoint)
	assert.False(t, a.state.IsTracker, "the higher endpoint must step down")
}

func TestFileIndexRejectsNonTracker(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.state.KnownTrackerEndpoint = "10.0.0.5:9000"
	a.state.KnownTrackerEpoch = 2

	resp := a.handleQueryFile(rpc.QueryFileRequest{Name: "movie.mp4", PeerEpoch: 2})
	assert.Equal(t, rpc.StatusNotTracker, resp.Status)
	assert.Equal(t, epoch.Endpoint("10.0.0.5:9000"), resp.KnownTrackerEndpoint)
}

func TestFileIndexRejectsStaleEpoch(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.state.IsTracker = true
	a.state.KnownTrackerEpoch = 9

	resp := a.handleRegisterFiles(rpc.RegisterFilesRequest{PeerID: "peer-b", Files: []string{"a.txt"}, PeerEpoch: 2})
	assert.Equal(t, rpc.StatusEpochTooLow, resp.Status)
	assert.Equal(t, epoch.Epoch(9), resp.KnownTrackerEpoch)
}

func TestFileIndexRegisterThenQuery(t *testing.T) {
	a, _ := newTestActor(t, "10.0.0.1:9000", 3, &fakeClient{})
	a.state.IsTracker = true
	a.state.KnownTrackerEpoch = 1

	resp := a.handleRegisterFiles(rpc.RegisterFilesRequest{
		PeerID: "peer-b", Endpoint: "10.0.0.2:9000", Files: []string{"song.mp3"}, PeerEpoch: 1,
	})
	require.Equal(t, rpc.StatusOK, resp.Status)

	query := a.handleQueryFile(rpc.QueryFileRequest{Name: "song.mp3", PeerEpoch: 1})
	require.Equal(t, rpc.StatusOK, query.Status)
	require.Len(t, query.Holders, 1)
	assert.Equal(t, "peer-b", query.Holders[0].PeerID)
}
