package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/meshare/meshare/internal/utils"
)

// Handler is implemented by the election actor: it is the sole consumer of
// every inbound RPC, so the actor loop stays the single owner of epoch.State
// per spec.md section 9's design notes.
type Handler interface {
	Ping(r *http.Request) error
	RequestVote(r *http.Request, req VoteRequest) (granted bool, err error)
	ReceiveHeartbeat(r *http.Request, req HeartbeatRequest) error
	RegisterFiles(r *http.Request, req RegisterFilesRequest) Response
	QueryFile(r *http.Request, req QueryFileRequest) Response
	ListIndex(r *http.Request, req ListIndexRequest) Response
}

// Server adapts a Handler onto the HTTP surface spec.md section 6 names,
// mirroring the teacher's cmd.APIHandler dispatch table.
type Server struct {
	handler Handler
}

// NewServer builds an RPC server dispatching to handler.
func NewServer(handler Handler) *Server {
	return &Server{handler: handler}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/vote", s.handleVote)
	mux.HandleFunc("/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("/register_files", s.handleRegisterFiles)
	mux.HandleFunc("/query_file", s.handleQueryFile)
	mux.HandleFunc("/list_index", s.handleListIndex)
	return mux
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.handler.Ping(r); err != nil {
		utils.Debug("rpc", "ping failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	granted, err := s.handler.RequestVote(r, req)
	if err != nil {
		utils.Debug("rpc", "vote request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"granted": granted})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req HeartbeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.handler.ReceiveHeartbeat(r, req); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRegisterFiles(w http.ResponseWriter, r *http.Request) {
	var req RegisterFilesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, s.handler.RegisterFiles(r, req))
}

func (s *Server) handleQueryFile(w http.ResponseWriter, r *http.Request) {
	var req QueryFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, s.handler.QueryFile(r, req))
}

func (s *Server) handleListIndex(w http.ResponseWriter, r *http.Request) {
	var req ListIndexRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, s.handler.ListIndex(r, req))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		http.Error(w, "missing body", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
