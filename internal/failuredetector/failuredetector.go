// Package failuredetector implements spec.md section 4.2's tracker
// liveness timer: a randomized one-shot window that resets on every
// heartbeat and, left to expire, tells the election actor to start hunting
// for a tracker.
package failuredetector

import (
	"context"
	"math/rand"
	"time"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/utils"
)

// Detector watches an election.Actor's heartbeat stream.
type Detector struct {
	actor    *election.Actor
	settings *config.Settings
}

// New builds a failure detector for actor.
func New(actor *election.Actor, settings *config.Settings) *Detector {
	return &Detector{actor: actor, settings: settings}
}

// Run blocks until ctx is cancelled, resetting its window on every
// heartbeat the actor reports and notifying the actor whenever the window
// expires uninterrupted.
func (d *Detector) Run(ctx context.Context) {
	timer := time.NewTimer(d.nextWindow())
	defer timer.Stop()

	heartbeats := d.actor.HeartbeatSeen()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeats:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.nextWindow())
		case <-timer.C:
			utils.Debug("failuredetector", "detection window expired without a heartbeat")
			d.actor.NotifyDetectionExpired(ctx)
			timer.Reset(d.nextWindow())
		}
	}
}

func (d *Detector) nextWindow() time.Duration {
	min := d.settings.Timing.TrackerDetectionTimeoutMin
	max := d.settings.Timing.TrackerDetectionTimeoutMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
