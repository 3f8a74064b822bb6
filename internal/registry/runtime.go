package registry

import (
	"strconv"
	"sync"

	"go-micro.dev/v4/logger"
)

const runtimeFields = 2

// RuntimeRegistry is a durable mapping from a series ID to the last observed
// average episode duration in minutes
type RuntimeRegistry struct {
	mu   sync.Mutex
	path string
}

func NewRuntimeRegistry(path string) *RuntimeRegistry {
	return &RuntimeRegistry{path: path}
}

// Set upserts the duration for a series. I/O failures are logged and
// swallowed, the caller proceeds as if the value were stored best-effort.
func (r *RuntimeRegistry) Set(seriesID int64, minutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, runtimeFields)
	if err != nil {
		logger.Warnf("Load runtime store failed: %s", err)
	}

	key := strconv.FormatInt(seriesID, 10)
	value := strconv.Itoa(minutes)

	updated := false
	for i := range rows {
		if rows[i][0] == key {
			rows[i][1] = value
			updated = true
			break
		}
	}
	if !updated {
		rows = append(rows, []string{key, value})
	}

	if err = writeRows(r.path, rows); err != nil {
		logger.Warnf("Store runtime of series %d failed: %s", seriesID, err)
	}
}

// Get returns the stored duration for a series. Read failures and malformed
// rows are indistinguishable from "never set": both report absence.
func (r *RuntimeRegistry) Get(seriesID int64) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, runtimeFields)
	if err != nil {
		logger.Warnf("Load runtime store failed: %s", err)
		return 0, false
	}

	key := strconv.FormatInt(seriesID, 10)
	for _, row := range rows {
		if row[0] != key {
			continue
		}
		minutes, err := strconv.Atoi(row[1])
		if err != nil {
			continue
		}
		return minutes, true
	}
	return 0, false
}
