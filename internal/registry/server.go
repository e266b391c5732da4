package registry

import (
	"encoding/json"
	"net/http"

	"github.com/meshare/meshare/internal/utils"
)

// Server exposes an InMemory registry over HTTP, following the handler
// shape of the teacher's cmd.APIHandler. It is the concrete stand-in for
// the "external" name service spec.md otherwise treats as out of scope.
type Server struct {
	store *InMemory
}

// NewServer builds a registry HTTP server over a fresh in-memory store.
func NewServer() *Server {
	return &Server{store: NewInMemory()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/lookup", s.handleLookup)
	mux.HandleFunc("/unregister", s.handleUnregister)
	mux.HandleFunc("/list", s.handleList)
	return mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	endpoint := r.URL.Query().Get("endpoint")
	if name == "" || endpoint == "" {
		http.Error(w, "name and endpoint are required", http.StatusBadRequest)
		return
	}
	if err := s.store.Register(name, endpoint); err != nil {
		utils.Debug("registry", "register %s failed: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	endpoint, err := s.store.Lookup(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"endpoint": endpoint})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := s.store.Unregister(name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	names, err := s.store.ListPrefix(prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(names)
}
