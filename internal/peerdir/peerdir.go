// Package peerdir implements the Peer Directory of spec.md section 2:
// enumerating the cohort's current peer endpoints from the name registry,
// excluding self.
package peerdir

import (
	"sort"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/registry"
)

// List returns every cohort peer's endpoint except selfID, sorted for
// deterministic fan-out ordering in tests.
func List(reg registry.Registry, selfID string) ([]epoch.Endpoint, error) {
	names, err := reg.ListPrefix(registry.PeerPrefix())
	if err != nil {
		return nil, err
	}

	var peers []epoch.Endpoint
	for name, endpoint := range names {
		id, ok := registry.ParsePeerID(name)
		if !ok || id == selfID {
			continue
		}
		peers = append(peers, epoch.Endpoint(endpoint))
	}

	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return peers, nil
}
