// Package election implements the fault-tolerant tracker election and
// maintenance subsystem: discovery, failure detection triggers, candidacy
// and voting, heartbeat reconciliation, and the epoch-gated file index RPCs
// that ride along the same tracker role.
//
// A single Actor goroutine owns every mutable field of epoch.State and the
// tracker's fileindex.Index. Every other goroutine — HTTP handlers, the
// heartbeat emitter, the failure detector, the local file watcher — talks to
// the actor only by sending a command and waiting for its reply, so no lock
// ever needs to guard the election state itself.
package election

import (
	"context"
	"math/rand"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/fileindex"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/meshare/meshare/internal/utils"
)

// Actor is the single owner of a peer's election state.
type Actor struct {
	state    *epoch.State
	settings *config.Settings
	reg      registry.Registry
	client   rpcClient
	index    *fileindex.Index

	cmds          chan command
	heartbeatSeen chan struct{}
}

// New builds an unstarted Actor for self.
func New(self epoch.Endpoint, peerID string, settings *config.Settings, reg registry.Registry, client *rpc.Client) *Actor {
	return &Actor{
		state:         epoch.NewState(self, peerID),
		settings:      settings,
		reg:           reg,
		client:        client,
		index:         fileindex.New(),
		cmds:          make(chan command, 32),
		heartbeatSeen: make(chan struct{}, 1),
	}
}

// Index exposes the tracker file index directly for read-only callers that
// don't need to round-trip the actor loop. The CLI and the status dashboard
// do not use it; they read the index through ListIndex.
// Mutating entry points still go through handleRegisterFiles.
func (a *Actor) Index() *fileindex.Index { return a.index }

// HeartbeatSeen reports every time a heartbeat was processed, regardless of
// whether it changed anything. The failure detector resets its timer on it.
func (a *Actor) HeartbeatSeen() <-chan struct{} { return a.heartbeatSeen }

// Run drives the actor loop until ctx is cancelled. It also kicks off the
// one-shot startup discovery sequence from spec.md section 4.1.
func (a *Actor) Run(ctx context.Context) {
	go a.startup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-a.cmds:
			cmd.apply(ctx, a)
		}
	}
}

// submit enqueues cmd for the actor loop and returns once it has been
// accepted; it does not wait for the command to finish applying.
func (a *Actor) submit(ctx context.Context, cmd command) {
	select {
	case a.cmds <- cmd:
	case <-ctx.Done():
	}
}

func (a *Actor) startup(ctx context.Context) {
	var delay time.Duration
	if a.settings.Cohort.Bootstrap {
		delay = randomDuration(0, a.settings.Timing.BootstrapDelayMax)
	} else {
		delay = randomDuration(a.settings.Timing.DiscoveryDelayMin, a.settings.Timing.DiscoveryDelayMax)
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	utils.Debug("election", "startup discovery beginning after %s delay", delay)
	runDiscovery(ctx, a)
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
