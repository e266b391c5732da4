package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetMeshareDir returns the platform config directory for meshare,
// resolved by adrg/xdg instead of the hand-rolled per-OS switch the
// teacher repo used (and flagged with a TODO to replace).
func GetMeshareDir() string {
	dir, err := xdg.ConfigFile("meshare")
	if err != nil {
		return filepath.Join(xdg.Home, ".meshare")
	}
	return dir
}

// GetDataDir returns the directory for the peer's local state: the
// shared-files directory default and the fetch-history database.
func GetDataDir() string {
	dir, err := xdg.DataFile("meshare")
	if err != nil {
		return filepath.Join(GetMeshareDir(), "data")
	}
	return dir
}

// GetLogsDir returns the directory debug logs are written to.
func GetLogsDir() string {
	dir, err := xdg.CacheFile(filepath.Join("meshare", "logs"))
	if err != nil {
		return filepath.Join(GetMeshareDir(), "logs")
	}
	return dir
}

// GetRuntimeDir returns the directory used for the single-instance lock
// file and the admin-address marker consulted by `meshare` subcommands to
// find the locally running peer.
func GetRuntimeDir() string {
	dir, err := xdg.RuntimeFile("meshare")
	if err != nil {
		dir = filepath.Join(os.TempDir(), "meshare")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		panic(err)
	}
	return dir
}

// EnsureDirs creates every directory a peer process needs before it starts.
func EnsureDirs() error {
	for _, dir := range []string{GetMeshareDir(), GetDataDir(), GetLogsDir(), GetRuntimeDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
