// Package stubs works with the catalog of pre-authored stub media files and
// the canonical naming of episode stub files on a disk.
package stubs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// MinMinutes and MaxMinutes bound the duration band covered by the
	// pre-authored stub assets; targets outside are clamped
	MinMinutes = 10
	MaxMinutes = 240

	// DefaultMinutes is a duration of the generic placeholder stub
	DefaultMinutes = 30

	// durationMarker ends the minute count in a stub catalog file name,
	// e.g. "30min.mp4"
	durationMarker = "min"
)

const (
	// ApproximateExt marks a generic placeholder pending a duration-accurate upgrade
	ApproximateExt = ".mp4"

	// AccurateExt marks a stub matched to a known average episode duration
	AccurateExt = ".mkv"
)

// FindClosest picks a stub file from catalogDir whose encoded duration is the
// nearest to targetMinutes. The target is clamped into [MinMinutes, MaxMinutes],
// ties resolve to the smaller candidate duration. Returns false if the catalog
// is missing, empty or no file name parses.
func FindClosest(targetMinutes int, catalogDir string) (string, bool) {
	if targetMinutes < MinMinutes {
		targetMinutes = MinMinutes
	}
	if targetMinutes > MaxMinutes {
		targetMinutes = MaxMinutes
	}

	entries, err := os.ReadDir(catalogDir)
	if err != nil {
		return "", false
	}

	best := ""
	bestMinutes := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		minutes, ok := parseStubName(entry.Name())
		if !ok {
			continue
		}
		if best == "" || closer(minutes, bestMinutes, targetMinutes) {
			best = entry.Name()
			bestMinutes = minutes
		}
	}

	if best == "" {
		return "", false
	}
	return filepath.Join(catalogDir, best), true
}

// closer reports whether candidate beats current for the target, preferring
// the smaller duration on equal distance
func closer(candidate, current, target int) bool {
	dc := abs(candidate - target)
	dr := abs(current - target)
	if dc != dr {
		return dc < dr
	}
	return candidate < current
}

// parseStubName extracts the minute count from a catalog file name: the
// portion before the duration marker must be an integer
func parseStubName(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	pos := strings.Index(base, durationMarker)
	if pos <= 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(base[:pos])
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
