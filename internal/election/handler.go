package election

import (
	"net/http"

	"github.com/meshare/meshare/internal/rpc"
)

// The methods in this file implement rpc.Handler: every inbound RPC is
// translated into a command and handed to the actor loop, then the caller
// blocks on the reply channel or the request's own context.

func (a *Actor) Ping(r *http.Request) error {
	reply := make(chan error, 1)
	a.submit(r.Context(), pingCmd{reply: reply})
	select {
	case err := <-reply:
		return err
	case <-r.Context().Done():
		return r.Context().Err()
	}
}

func (a *Actor) RequestVote(r *http.Request, req rpc.VoteRequest) (bool, error) {
	reply := make(chan bool, 1)
	a.submit(r.Context(), voteCmd{req: req, reply: reply})
	select {
	case granted := <-reply:
		return granted, nil
	case <-r.Context().Done():
		return false, r.Context().Err()
	}
}

func (a *Actor) ReceiveHeartbeat(r *http.Request, req rpc.HeartbeatRequest) error {
	reply := make(chan error, 1)
	a.submit(r.Context(), heartbeatCmd{req: req, reply: reply})
	select {
	case err := <-reply:
		return err
	case <-r.Context().Done():
		return r.Context().Err()
	}
}

func (a *Actor) RegisterFiles(r *http.Request, req rpc.RegisterFilesRequest) rpc.Response {
	reply := make(chan rpc.Response, 1)
	a.submit(r.Context(), registerFilesCmd{req: req, reply: reply})
	select {
	case resp := <-reply:
		return resp
	case <-r.Context().Done():
		return rpc.Response{}
	}
}

func (a *Actor) QueryFile(r *http.Request, req rpc.QueryFileRequest) rpc.Response {
	reply := make(chan rpc.Response, 1)
	a.submit(r.Context(), queryFileCmd{req: req, reply: reply})
	select {
	case resp := <-reply:
		return resp
	case <-r.Context().Done():
		return rpc.Response{}
	}
}

func (a *Actor) ListIndex(r *http.Request, req rpc.ListIndexRequest) rpc.Response {
	reply := make(chan rpc.Response, 1)
	a.submit(r.Context(), listIndexCmd{req: req, reply: reply})
	select {
	case resp := <-reply:
		return resp
	case <-r.Context().Done():
		return rpc.Response{}
	}
}
