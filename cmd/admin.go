package cmd

import (
	"encoding/json"
	"net/http"

	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/localfiles"
)

// adminServer exposes the CLI-facing surface a running peer answers: status
// inspection, search/list against the tracker, and an on-demand local
// rescan. It is deliberately separate from internal/rpc's peer-to-peer
// surface, the way the teacher's cmd/http_server.go sat beside the
// download engine's own protocol handling.
type adminServer struct {
	actor    *election.Actor
	watcher  *localfiles.Watcher
	shutdown chan struct{}
}

func newAdminServer(actor *election.Actor, watcher *localfiles.Watcher, shutdown chan struct{}) *adminServer {
	return &adminServer{actor: actor, watcher: watcher, shutdown: shutdown}
}

func (s *adminServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/index", s.handleIndex)
	mux.HandleFunc("/refresh", s.handleRefresh)
	mux.HandleFunc("/election", s.handleElection)
	mux.HandleFunc("/quit", s.handleQuit)
	return mux
}

func (s *adminServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.actor.Status(r.Context()))
}

func (s *adminServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}
	holders, err := s.actor.QueryFile(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, holders)
}

func (s *adminServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	index, err := s.actor.ListIndex(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, index)
}

func (s *adminServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		http.Error(w, "local file watcher is not running", http.StatusServiceUnavailable)
		return
	}
	s.watcher.Rescan(r.Context())
	w.WriteHeader(http.StatusOK)
}

func (s *adminServer) handleElection(w http.ResponseWriter, r *http.Request) {
	s.actor.NotifyDetectionExpired(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func (s *adminServer) handleQuit(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusAccepted)
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
