package election

import (
	"context"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/rpc"
)

// rpcClient is the outbound RPC surface the actor needs. It is satisfied by
// *rpc.Client; tests supply a fake instead of standing up real HTTP servers
// for every peer in a cohort.
type rpcClient interface {
	Ping(ctx context.Context, endpoint epoch.Endpoint) error
	RequestVote(ctx context.Context, endpoint, candidate epoch.Endpoint, electionEpoch epoch.Epoch) (bool, error)
	SendHeartbeat(ctx context.Context, endpoint, trackerEndpoint epoch.Endpoint, trackerEpoch epoch.Epoch) error
	RegisterFiles(ctx context.Context, tracker epoch.Endpoint, req rpc.RegisterFilesRequest) (rpc.Response, error)
	QueryFile(ctx context.Context, tracker epoch.Endpoint, req rpc.QueryFileRequest) (rpc.Response, error)
	ListIndex(ctx context.Context, tracker epoch.Endpoint, req rpc.ListIndexRequest) (rpc.Response, error)
}
