// Package rpc implements the Peer RPC Surface of spec.md section 6: the
// six calls every peer exposes to the rest of the cohort. The two
// chunk-transfer leaf calls are served by internal/download instead.
// Responses use the tagged-variant shape the
// design notes recommend instead of a loosely typed status dictionary.
package rpc

import "github.com/meshare/meshare/internal/epoch"

// Status is the response status set from spec.md section 6.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotTracker  Status = "not_tracker"
	StatusEpochTooLow Status = "epoch_too_low"
)

// Holder identifies one peer that holds a file, as stored in the tracker
// file index.
type Holder struct {
	PeerID   string        `json:"peer_id"`
	Endpoint epoch.Endpoint `json:"endpoint"`
}

// Response is the tagged result of register_files / query_file / list_index.
// Exactly one of the payload fields is meaningful, selected by Status:
//
//	StatusOK:          RegisteredAtEpoch (register_files) or Holders/Index
//	StatusNotTracker:  KnownTrackerEndpoint, KnownTrackerEpoch
//	StatusEpochTooLow: KnownTrackerEpoch (carries self_epoch, per spec.md section 4.7)
type Response struct {
	Status Status `json:"status"`

	RegisteredAtEpoch epoch.Epoch `json:"registered_at_epoch,omitempty"`
	Holders           []Holder    `json:"holders,omitempty"`
	Index             map[string][]Holder `json:"index,omitempty"`

	KnownTrackerEndpoint epoch.Endpoint `json:"known_tracker_endpoint,omitempty"`
	KnownTrackerEpoch    epoch.Epoch    `json:"known_tracker_epoch,omitempty"`
}

// NotTracker builds a not_tracker response carrying the peer's current view.
func NotTracker(endpoint epoch.Endpoint, e epoch.Epoch) Response {
	return Response{Status: StatusNotTracker, KnownTrackerEndpoint: endpoint, KnownTrackerEpoch: e}
}

// EpochTooLow builds an epoch_too_low response carrying self_epoch.
func EpochTooLow(selfEpoch epoch.Epoch) Response {
	return Response{Status: StatusEpochTooLow, KnownTrackerEpoch: selfEpoch}
}

// VoteRequest is the request_vote RPC payload.
type VoteRequest struct {
	CandidateEndpoint epoch.Endpoint `json:"candidate_endpoint"`
	ElectionEpoch     epoch.Epoch    `json:"election_epoch"`
}

// HeartbeatRequest is the receive_heartbeat RPC payload.
type HeartbeatRequest struct {
	TrackerEndpoint epoch.Endpoint `json:"tracker_endpoint"`
	TrackerEpoch    epoch.Epoch    `json:"tracker_epoch"`
}

// RegisterFilesRequest is the register_files RPC payload.
type RegisterFilesRequest struct {
	PeerID      string         `json:"peer_id"`
	Endpoint    epoch.Endpoint `json:"endpoint"`
	Files       []string       `json:"files"`
	PeerEpoch   epoch.Epoch    `json:"peer_epoch"`
	Incremental bool           `json:"incremental"`
}

// QueryFileRequest is the query_file RPC payload.
type QueryFileRequest struct {
	Name      string      `json:"name"`
	PeerEpoch epoch.Epoch `json:"peer_epoch"`
}

// ListIndexRequest is the list_index RPC payload.
type ListIndexRequest struct {
	PeerEpoch epoch.Epoch `json:"peer_epoch"`
}
