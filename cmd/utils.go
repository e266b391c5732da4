package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/meshare/meshare/internal/config"
)

var processLock *flock.Flock

// AcquireLock takes the single-instance lock for this peer's runtime
// directory. isMaster is false if another process already holds it.
func AcquireLock() (isMaster bool, err error) {
	lockPath := filepath.Join(config.GetRuntimeDir(), "peer.lock")
	processLock = flock.New(lockPath)

	locked, err := processLock.TryLock()
	if err != nil {
		return false, err
	}
	return locked, nil
}

// ReleaseLock releases the single-instance lock acquired by AcquireLock.
func ReleaseLock() error {
	if processLock == nil {
		return nil
	}
	return processLock.Unlock()
}

func adminAddrPath() string {
	return filepath.Join(config.GetRuntimeDir(), "admin-addr")
}

// saveAdminAddr records where the running daemon's admin API listens, so
// other `meshare` invocations can find it.
func saveAdminAddr(addr string) {
	_ = os.WriteFile(adminAddrPath(), []byte(addr), 0o644)
}

func removeAdminAddr() {
	_ = os.Remove(adminAddrPath())
}

// readAdminAddr returns the base URL of the locally running daemon's admin
// API, or "" if none is recorded.
func readAdminAddr() string {
	data, err := os.ReadFile(adminAddrPath())
	if err != nil {
		return ""
	}
	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

func adminRequest(method, path string, body any) (*http.Response, error) {
	baseURL := readAdminAddr()
	if baseURL == "" {
		return nil, fmt.Errorf("no meshare peer appears to be running (no admin address recorded)")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}
