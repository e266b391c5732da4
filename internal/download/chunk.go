// Package download implements the chunk-transfer leaf calls of spec.md
// section 6, get_file_size and request_file_chunk: serving byte ranges out
// of a peer's shared directory over plain HTTP, the way the teacher's
// engine served torrent pieces.
package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vfaronov/httpheader"

	"github.com/meshare/meshare/internal/utils"
)

// Server exposes get_file_size and request_file_chunk over a shared
// directory. It has no relationship to the election actor: chunk transfer
// is pure file I/O and never touches epoch state.
type Server struct {
	sharedDir string
}

// NewServer builds a chunk server rooted at sharedDir.
func NewServer(sharedDir string) *Server {
	return &Server{sharedDir: sharedDir}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/size", s.handleSize)
	mux.HandleFunc("/chunk", s.handleChunk)
	return mux
}

// resolve maps a bare filename from the tracker's index onto a path inside
// sharedDir, rejecting any attempt to escape it.
func (s *Server) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == ".." || filepath.IsAbs(clean) || len(clean) >= 2 && clean[:2] == ".." {
		return "", fmt.Errorf("download: invalid file name %q", name)
	}
	return filepath.Join(s.sharedDir, clean), nil
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	path, err := s.resolve(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"size":%d}`, info.Size())
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	path, err := s.resolve(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "stat failed", http.StatusInternalServerError)
		return
	}
	size := info.Size()

	start, end, ok := parseRangeHeader(r.Header.Get("Range"), size)
	if !ok {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, f)
		return
	}
	length := end - start + 1

	httpheader.SetContentRange(w.Header(), httpheader.ContentRange{
		Unit: "bytes", Start: start, End: end, Size: size,
	})
	w.Header().Set("Content-Length", fmt.Sprintf("%d", length))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.Copy(w, io.NewSectionReader(f, start, length)); err != nil {
		utils.Debug("download", "chunk write for %s failed: %v", name, err)
	}
}

// parseRangeHeader handles the single-range "bytes=start-end" form
// request_file_chunk uses; a malformed or multi-range header falls back to
// serving the whole file, mirroring how most HTTP file servers degrade.
func parseRangeHeader(header string, size int64) (start, end int64, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return 0, 0, false
	}
	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		return 0, 0, false
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	switch {
	case parts[0] == "" && parts[1] != "":
		// Suffix range: last N bytes.
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, true

	case parts[0] != "":
		s, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || s < 0 || s >= size {
			return 0, 0, false
		}
		e := size - 1
		if parts[1] != "" {
			parsed, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil || parsed < s {
				return 0, 0, false
			}
			if parsed < e {
				e = parsed
			}
		}
		return s, e, true
	}

	return 0, 0, false
}
