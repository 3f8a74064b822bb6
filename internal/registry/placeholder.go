package registry

import (
	"strconv"
	"sync"

	"go-micro.dev/v4/logger"
)

const placeholderFields = 4

// PlaceholderEntry tracks an approximate stub file created for an episode
// whose true duration is not known yet. The path is advisory: the file may
// have vanished since, consumers must re-check the disk before acting.
type PlaceholderEntry struct {
	SeriesID int64
	Season   int
	Episode  int
	Path     string
}

// PlaceholderRegistry is a durable set of placeholder entries, unique per
// (series, season, episode)
type PlaceholderRegistry struct {
	mu   sync.Mutex
	path string
}

func NewPlaceholderRegistry(path string) *PlaceholderRegistry {
	return &PlaceholderRegistry{path: path}
}

// Add inserts an entry. Inserting a key which is already tracked is a no-op.
func (r *PlaceholderRegistry) Add(entry PlaceholderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, placeholderFields)
	if err != nil {
		logger.Warnf("Load placeholder store failed: %s", err)
	}

	for _, row := range rows {
		if e, ok := parsePlaceholderRow(row); ok && e.sameKey(&entry) {
			return
		}
	}

	rows = append(rows, []string{
		strconv.FormatInt(entry.SeriesID, 10),
		strconv.Itoa(entry.Season),
		strconv.Itoa(entry.Episode),
		entry.Path,
	})

	if err = writeRows(r.path, rows); err != nil {
		logger.Warnf("Store placeholder entry failed: %s", err)
	}
}

// Remove deletes a matching entry, no-op if absent
func (r *PlaceholderRegistry) Remove(seriesID int64, season, episode int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, placeholderFields)
	if err != nil {
		logger.Warnf("Load placeholder store failed: %s", err)
		return
	}

	key := PlaceholderEntry{SeriesID: seriesID, Season: season, Episode: episode}
	kept := rows[:0]
	removed := false
	for _, row := range rows {
		if e, ok := parsePlaceholderRow(row); ok && e.sameKey(&key) {
			removed = true
			continue
		}
		kept = append(kept, row)
	}

	if !removed {
		return
	}
	if err = writeRows(r.path, kept); err != nil {
		logger.Warnf("Store placeholder entries failed: %s", err)
	}
}

// ListForSeries returns all tracked entries of a series in store order
func (r *PlaceholderRegistry) ListForSeries(seriesID int64) []PlaceholderEntry {
	entries := r.ListAll()
	result := entries[:0]
	for _, e := range entries {
		if e.SeriesID == seriesID {
			result = append(result, e)
		}
	}
	return result
}

// ListAll returns every tracked entry in store order
func (r *PlaceholderRegistry) ListAll() []PlaceholderEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := readRows(r.path, placeholderFields)
	if err != nil {
		logger.Warnf("Load placeholder store failed: %s", err)
		return nil
	}

	var entries []PlaceholderEntry
	for _, row := range rows {
		if e, ok := parsePlaceholderRow(row); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func (e *PlaceholderEntry) sameKey(other *PlaceholderEntry) bool {
	return e.SeriesID == other.SeriesID && e.Season == other.Season && e.Episode == other.Episode
}

func parsePlaceholderRow(row []string) (PlaceholderEntry, bool) {
	seriesID, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return PlaceholderEntry{}, false
	}
	season, err := strconv.Atoi(row[1])
	if err != nil {
		return PlaceholderEntry{}, false
	}
	episode, err := strconv.Atoi(row[2])
	if err != nil {
		return PlaceholderEntry{}, false
	}
	return PlaceholderEntry{SeriesID: seriesID, Season: season, Episode: episode, Path: row[3]}, true
}
