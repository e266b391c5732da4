// Package localfiles implements spec.md section 4.8: periodically
// rescanning a peer's shared directory and registering what it finds with
// the tracker, favoring a cheap incremental add over a full resync.
package localfiles

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/utils"
)

// Watcher rescans a shared directory on a timer and keeps the tracker's
// file index in sync with it.
type Watcher struct {
	dir      string
	actor    *election.Actor
	settings *config.Settings
	known    map[string]bool
}

// New builds a watcher over dir.
func New(dir string, actor *election.Actor, settings *config.Settings) *Watcher {
	return &Watcher{dir: dir, actor: actor, settings: settings, known: make(map[string]bool)}
}

// Run performs an immediate full registration, then rescans every
// FileWatchInterval, registering only newly-seen files incrementally unless
// scanAndRegister detects a deletion or this peer is the tracker, in which
// case it falls back to a full sweep so deletions propagate.
func (w *Watcher) Run(ctx context.Context) {
	w.scanAndRegister(ctx, false)

	ticker := time.NewTicker(w.settings.Timing.FileWatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scanAndRegister(ctx, true)
		}
	}
}

// Rescan forces an immediate full registration sweep, used by the CLI's
// refresh command to pick up deletions without waiting for the timer.
func (w *Watcher) Rescan(ctx context.Context) {
	w.scanAndRegister(ctx, false)
}

func (w *Watcher) scanAndRegister(ctx context.Context, incremental bool) {
	files, err := w.scanDir()
	if err != nil {
		utils.Debug("localfiles", "scan of %s failed: %v", w.dir, err)
		return
	}

	if incremental {
		deleted := false
		for name := range w.known {
			if !files[name] {
				deleted = true
				break
			}
		}
		// spec.md section 4.8: a full sweep replaces the incremental add
		// whenever files were removed (incremental registration can never
		// convey a deletion) or this peer is itself the tracker, so its own
		// deletions propagate immediately rather than waiting on a restart.
		if deleted || w.actor.Status(ctx).IsTracker {
			incremental = false
		}
	}

	if incremental {
		var added []string
		for name := range files {
			if !w.known[name] {
				added = append(added, name)
			}
		}
		if len(added) == 0 {
			return
		}
		if err := w.actor.RegisterLocalFiles(ctx, added, true); err != nil {
			utils.Debug("localfiles", "incremental registration failed: %v", err)
			return
		}
		utils.Debug("localfiles", "registered %d new file(s) incrementally", len(added))
	} else {
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		if err := w.actor.RegisterLocalFiles(ctx, names, false); err != nil {
			utils.Debug("localfiles", "full registration failed: %v", err)
			return
		}
		utils.Debug("localfiles", "registered %d file(s) in a full sweep", len(names))
	}

	w.known = files
}

// scanDir walks the shared directory one level deep, returning the set of
// regular file names found and logging a best-effort filetype.filetype
// classification for each at debug level.
func (w *Watcher) scanDir() (map[string]bool, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		found[name] = true

		if utils.IsVerbose() {
			if kind := classify(filepath.Join(w.dir, name)); kind != "" {
				utils.Debug("localfiles", "%s classified as %s", name, kind)
			}
		}
	}
	return found, nil
}

func classify(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return ""
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
