package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/meshare/meshare/internal/epoch"
)

// Client calls another peer's RPC surface over HTTP, one *http.Client shared
// across calls the way the teacher's RemoteDownloadService shares a client,
// with the call's deadline supplied per-call via context rather than baked
// into the client itself.
type Client struct {
	httpClient *http.Client
}

// NewClient builds an RPC client.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

func (c *Client) post(ctx context.Context, endpoint epoch.Endpoint, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://%s%s", endpoint, path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("rpc %s: %s: %s", path, resp.Status, string(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping issues the liveness check startup discovery uses to tell a live
// tracker registration from a stale one. Callers supply a context already
// bound to PingTimeout.
func (c *Client) Ping(ctx context.Context, endpoint epoch.Endpoint) error {
	return c.post(ctx, endpoint, "/ping", nil, nil)
}

// RequestVote casts the candidacy RPC and reports whether the vote was
// granted. Callers supply a context bound to VoteTimeout.
func (c *Client) RequestVote(ctx context.Context, endpoint epoch.Endpoint, candidate epoch.Endpoint, electionEpoch epoch.Epoch) (bool, error) {
	var out struct {
		Granted bool `json:"granted"`
	}
	err := c.post(ctx, endpoint, "/vote", VoteRequest{CandidateEndpoint: candidate, ElectionEpoch: electionEpoch}, &out)
	if err != nil {
		return false, err
	}
	return out.Granted, nil
}

// SendHeartbeat delivers receive_heartbeat. Callers supply a context bound
// to HeartbeatTimeout.
func (c *Client) SendHeartbeat(ctx context.Context, endpoint, trackerEndpoint epoch.Endpoint, trackerEpoch epoch.Epoch) error {
	return c.post(ctx, endpoint, "/heartbeat", HeartbeatRequest{TrackerEndpoint: trackerEndpoint, TrackerEpoch: trackerEpoch}, nil)
}

// RegisterFiles delivers register_files to the tracker endpoint. Callers
// supply a context bound to RegisterTimeout.
func (c *Client) RegisterFiles(ctx context.Context, tracker epoch.Endpoint, req RegisterFilesRequest) (Response, error) {
	var out Response
	err := c.post(ctx, tracker, "/register_files", req, &out)
	return out, err
}

// QueryFile delivers query_file to the tracker endpoint.
func (c *Client) QueryFile(ctx context.Context, tracker epoch.Endpoint, req QueryFileRequest) (Response, error) {
	var out Response
	err := c.post(ctx, tracker, "/query_file", req, &out)
	return out, err
}

// ListIndex delivers list_index to the tracker endpoint.
func (c *Client) ListIndex(ctx context.Context, tracker epoch.Endpoint, req ListIndexRequest) (Response, error) {
	var out Response
	err := c.post(ctx, tracker, "/list_index", req, &out)
	return out, err
}
