package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	debugFile *os.File
	debugOnce sync.Once
	logsDir   atomic.Value // string
	verbose   atomic.Bool
)

// ConfigureDebug sets the directory debug logs are written to.
func ConfigureDebug(dir string) {
	logsDir.Store(dir)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// Debug writes a tagged message to the debug log file in the configured
// directory. tag identifies the subsystem (election, heartbeat, rpc, ...)
// so a single peer's log interleaves all of them legibly.
func Debug(tag string, format string, args ...any) {
	if !verbose.Load() {
		return
	}

	val := logsDir.Load()
	if val == nil {
		return
	}
	dir := val.(string)
	if dir == "" {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	debugOnce.Do(func() {
		_ = os.MkdirAll(dir, 0o755)
		debugFile, _ = os.Create(filepath.Join(dir, fmt.Sprintf("peer-%s.log", time.Now().Format("20060102-150405"))))
	})

	if debugFile != nil {
		_, _ = fmt.Fprintf(debugFile, "[%s] [%s] %s\n", timestamp, tag, fmt.Sprintf(format, args...))
	}
}

// CleanupLogs removes old log files, keeping only the most recent retentionCount.
func CleanupLogs(retentionCount int) {
	if retentionCount < 0 {
		return
	}

	val := logsDir.Load()
	if val == nil {
		return
	}
	dir := val.(string)
	if dir == "" {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []fs.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "peer-") && strings.HasSuffix(entry.Name(), ".log") {
			logs = append(logs, entry)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Name() > logs[j].Name()
	})

	if len(logs) <= retentionCount {
		return
	}

	for _, log := range logs[retentionCount:] {
		_ = os.Remove(filepath.Join(dir, log.Name()))
	}
}
