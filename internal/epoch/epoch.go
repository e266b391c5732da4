// Package epoch defines the monotonic epoch/endpoint types shared by every
// other subsystem of a peer: the election engine, the failure detector, the
// heartbeat emitter and the file index all reason about epochs and
// endpoints the same way, so the comparator lives in one place.
package epoch

// Epoch is a non-negative, strictly monotone tenure counter. Zero is the
// sentinel "no tracker ever seen".
type Epoch uint64

// NoEpoch is the sentinel value meaning "no tracker has ever been observed".
const NoEpoch Epoch = 0

// Endpoint is a peer's network address, the sole deterministic tie-breaker
// in the election protocol via lexicographic order.
type Endpoint string

// Less reports whether a is the lexicographically smaller endpoint. Every
// comparison in the election/heartbeat code routes through this function so
// the tie-break rule is never scattered as ad hoc string comparisons.
func Less(a, b Endpoint) bool {
	return a < b
}

// Max returns the greater of two epochs.
func Max(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}
