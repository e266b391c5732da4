// Package registry implements the Name Registry Client of spec.md section 2:
// registering, looking up and unregistering the well-known names
// PEER_<id> and TRACKER_EPOCH_<n> against an external directory service.
//
// The directory service itself is an external collaborator per spec.md
// section 1 ("the launcher that spawns peers and the name service"), but a
// minimal, real implementation ships here (server.go) so the cohort is
// runnable and the election subsystem testable end to end.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Lookup when a name has no registration.
var ErrNotFound = errors.New("registry: name not found")

// Registry is the Name Registry Client surface every peer depends on.
type Registry interface {
	Register(name, endpoint string) error
	Lookup(name string) (endpoint string, err error)
	Unregister(name string) error
	ListPrefix(prefix string) (map[string]string, error)
}

const (
	peerPrefix         = "PEER_"
	trackerEpochPrefix = "TRACKER_EPOCH_"
)

// PeerName returns the well-known name a peer registers its endpoint under.
func PeerName(peerID string) string {
	return peerPrefix + peerID
}

// TrackerEpochName returns the well-known name the tracker of epoch e
// registers its endpoint under.
func TrackerEpochName(e uint64) string {
	return fmt.Sprintf("%s%d", trackerEpochPrefix, e)
}

// PeerPrefix is the prefix ListPrefix uses to enumerate the cohort.
func PeerPrefix() string { return peerPrefix }

// ParsePeerID extracts a peer id from a PEER_<id> name, or ("", false) if
// name does not have that shape.
func ParsePeerID(name string) (string, bool) {
	if !strings.HasPrefix(name, peerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(name, peerPrefix), true
}
