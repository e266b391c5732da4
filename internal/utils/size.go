package utils

import (
	"fmt"
	"path/filepath"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// ConvertBytesToHumanReadable formats a byte count for status/index display.
func ConvertBytesToHumanReadable(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

// EnsureAbsPath resolves path relative to the process working directory,
// leaving already-absolute paths untouched.
func EnsureAbsPath(path string) string {
	if path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
