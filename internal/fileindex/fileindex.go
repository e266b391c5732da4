// Package fileindex implements the tracker File Index of spec.md section 2:
// the in-memory map from filename to the set of peers holding it, built up
// by register_files and read back by query_file/list_index. It exists only
// on whichever peer currently holds the tracker role; spec.md section 1
// excludes any persistence of this state across tracker handoffs.
package fileindex

import (
	"sort"
	"sync"

	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/rpc"
)

// Index is the tracker's in-memory file index. It has its own lock so it
// can be driven directly by tests without going through the election actor,
// but in production exactly one actor goroutine calls it at a time.
type Index struct {
	mu sync.Mutex
	// files maps a filename to the peers currently known to hold it.
	files map[string]map[string]rpc.Holder
	// peerFiles maps a peer id to the set of filenames its last full
	// registration declared, used to compute deletions on the next full
	// registration (incremental registrations never delete, per spec.md
	// section 4.8).
	peerFiles map[string]map[string]bool
}

// New builds an empty file index.
func New() *Index {
	return &Index{
		files:     make(map[string]map[string]rpc.Holder),
		peerFiles: make(map[string]map[string]bool),
	}
}

// RegisterFull replaces peerID's entire file set, removing any file it
// previously held that is absent from files.
func (ix *Index) RegisterFull(peerID string, endpoint epoch.Endpoint, files []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	next := make(map[string]bool, len(files))
	for _, f := range files {
		next[f] = true
	}

	for f := range ix.peerFiles[peerID] {
		if !next[f] {
			ix.removeHolderLocked(f, peerID)
		}
	}

	for f := range next {
		ix.addHolderLocked(f, peerID, endpoint)
	}
	ix.peerFiles[peerID] = next
}

// RegisterIncremental adds files to peerID's set without deleting anything,
// even files no longer present locally: spec.md section 4.8 treats deletion
// detection as a full-registration-only concern.
func (ix *Index) RegisterIncremental(peerID string, endpoint epoch.Endpoint, files []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	known := ix.peerFiles[peerID]
	if known == nil {
		known = make(map[string]bool)
		ix.peerFiles[peerID] = known
	}
	for _, f := range files {
		known[f] = true
		ix.addHolderLocked(f, peerID, endpoint)
	}
}

// RemovePeer drops every file entry attributed to peerID. Nothing in the
// election actor calls it; a departed peer's entries stay indexed until the
// index is reset.
func (ix *Index) RemovePeer(peerID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for f := range ix.peerFiles[peerID] {
		ix.removeHolderLocked(f, peerID)
	}
	delete(ix.peerFiles, peerID)
}

// Query returns every holder of name, in peer-id order.
func (ix *Index) Query(name string) []rpc.Holder {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return sortedHolders(ix.files[name])
}

// List returns the full index, filename to holders.
func (ix *Index) List() map[string][]rpc.Holder {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	out := make(map[string][]rpc.Holder, len(ix.files))
	for name, holders := range ix.files {
		if list := sortedHolders(holders); len(list) > 0 {
			out[name] = list
		}
	}
	return out
}

// Reset discards the entire index, used on becoming tracker for a fresh
// epoch: spec.md section 4.4 builds the index from scratch rather than
// inheriting one from a prior tracker.
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.files = make(map[string]map[string]rpc.Holder)
	ix.peerFiles = make(map[string]map[string]bool)
}

func (ix *Index) addHolderLocked(file, peerID string, endpoint epoch.Endpoint) {
	holders := ix.files[file]
	if holders == nil {
		holders = make(map[string]rpc.Holder)
		ix.files[file] = holders
	}
	holders[peerID] = rpc.Holder{PeerID: peerID, Endpoint: endpoint}
}

func (ix *Index) removeHolderLocked(file, peerID string) {
	holders := ix.files[file]
	if holders == nil {
		return
	}
	delete(holders, peerID)
	if len(holders) == 0 {
		delete(ix.files, file)
	}
}

func sortedHolders(holders map[string]rpc.Holder) []rpc.Holder {
	out := make([]rpc.Holder, 0, len(holders))
	for _, h := range holders {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeerID < out[j].PeerID })
	return out
}
