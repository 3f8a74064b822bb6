package episodes

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/registry"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/stubs"
	"go-micro.dev/v4/logger"
)

const seasonDirPerms = 0755

// minValidStubSize separates a genuine accurate stub from a corrupt or
// incomplete one
const minValidStubSize = 20 * 1024

// minPresentSize separates a really present stub file from a truncated leftover
const minPresentSize = 1024

type episodeKey struct {
	season  int
	episode int
}

// manageStubFiles runs the two-phase stub lifecycle for a series: first the
// placeholder-to-stub upgrade pass over tracked entries, then per-episode
// provisioning of missing stub files. Every episode is fault-isolated, one
// failure never aborts the siblings.
func (s *Service) manageStubFiles(log logger.Logger, ctx context.Context, series *model.Item, remote []model.EpisodeRecord, opts *model.LibraryOptions) {
	if series.RootPath == "" || series.SeriesID == 0 {
		return
	}

	s.upgradePlaceholders(log, series)

	// files which belong to real episodes must never be touched
	realPaths := map[string]bool{}
	episodeKind := model.KindEpisode
	virtual := false
	episodes, err := s.db.QueryItems(ctx, model.ItemFilter{Kind: &episodeKind, SeriesID: &series.SeriesID, Virtual: &virtual})
	if err != nil {
		log.Logf(logger.WarnLevel, "Enumerate real episodes failed: %s", err)
	}
	for _, e := range episodes {
		if e.Path != "" {
			realPaths[e.Path] = true
		}
	}

	tracked := map[episodeKey]bool{}
	for _, entry := range s.placeholders.ListForSeries(series.SeriesID) {
		tracked[episodeKey{entry.Season, entry.Episode}] = true
	}

	bySeason := map[int][]model.EpisodeRecord{}
	for _, rec := range remote {
		bySeason[rec.Season] = append(bySeason[rec.Season], rec)
	}

	for _, no := range sortedSeasons(seasonSet(bySeason)) {
		dir := filepath.Join(series.RootPath, opts.SeasonName(no))
		if err = os.MkdirAll(dir, seasonDirPerms); err != nil {
			// not fatal for the series, the season is skipped for this pass
			log.Logf(logger.WarnLevel, "Create season directory %s failed: %s", dir, err)
			continue
		}

		for _, rec := range bySeason[no] {
			// cancellation is checked between episodes, never mid-copy
			select {
			case <-ctx.Done():
				return
			default:
			}

			if rec.Episode < 0 {
				continue
			}
			s.provisionEpisodeStub(log, series, dir, rec, realPaths, tracked)
		}
	}
}

// upgradePlaceholders replaces tracked approximate placeholders with
// duration-accurate stubs once the series runtime is known
func (s *Service) upgradePlaceholders(log logger.Logger, series *model.Item) {
	for _, entry := range s.placeholders.ListForSeries(series.SeriesID) {
		if !stubs.FileExists(entry.Path) {
			// the tracked file vanished, drop the stale record
			s.placeholders.Remove(entry.SeriesID, entry.Season, entry.Episode)
			continue
		}

		minutes, ok := s.runtimes.Get(series.SeriesID)
		if !ok || minutes <= 0 {
			continue
		}

		stub, ok := stubs.FindClosest(minutes, s.stubsDir)
		if !ok {
			log.Logf(logger.WarnLevel, "No stub for %d minutes, placeholder %s left for a future pass", minutes, entry.Path)
			continue
		}

		accurate := strings.TrimSuffix(entry.Path, filepath.Ext(entry.Path)) + stubs.AccurateExt
		if err := stubs.Copy(stub, accurate); err != nil {
			log.Logf(logger.WarnLevel, "Upgrade placeholder %s failed: %s", entry.Path, err)
			continue
		}

		// the placeholder goes away only after the accurate copy is committed
		s.removeFile(log, entry.Path)
		s.placeholders.Remove(entry.SeriesID, entry.Season, entry.Episode)
		log.Logf(logger.InfoLevel, "Placeholder upgraded: %s", accurate)
	}
}

// provisionEpisodeStub ensures exactly one stub file exists for an episode:
// an accurate one when the series duration is known, a tracked approximate
// placeholder otherwise
func (s *Service) provisionEpisodeStub(log logger.Logger, series *model.Item, dir string, rec model.EpisodeRecord, realPaths map[string]bool, tracked map[episodeKey]bool) {
	base := stubs.EpisodeBaseName(rec.Season, rec.Episode, rec.Title)
	approximate := filepath.Join(dir, base+stubs.ApproximateExt)
	accurate := filepath.Join(dir, base+stubs.AccurateExt)

	minutes, hasRuntime := s.runtimes.Get(series.SeriesID)
	hasRuntime = hasRuntime && minutes > 0

	// an approximate file nobody tracks and no real episode owns is an orphan
	orphan := stubs.FileExists(approximate) && !tracked[episodeKey{rec.Season, rec.Episode}] && !realPaths[approximate]

	if orphan {
		if hasRuntime {
			s.resolveOrphan(log, series, rec, minutes, approximate, accurate, realPaths, tracked)
		} else {
			if stubs.FileExists(accurate) && !realPaths[accurate] {
				// an accurate file must not exist before the duration is known
				s.removeFile(log, accurate)
			}
			if stubs.FileSize(approximate) <= minPresentSize {
				if !s.copyClosestStub(log, stubs.DefaultMinutes, approximate) {
					return
				}
			}
			s.trackPlaceholder(series, rec, approximate, tracked)
		}
		return
	}

	if hasRuntime {
		if stubs.FileSize(accurate) > minPresentSize || realPaths[accurate] {
			return
		}
		s.copyClosestStub(log, minutes, accurate)
		return
	}

	if stubs.FileSize(approximate) > minPresentSize || realPaths[approximate] {
		return
	}
	if s.copyClosestStub(log, stubs.DefaultMinutes, approximate) {
		s.trackPlaceholder(series, rec, approximate, tracked)
	}
}

// resolveOrphan settles an orphaned approximate file when the duration is
// already known
func (s *Service) resolveOrphan(log logger.Logger, series *model.Item, rec model.EpisodeRecord, minutes int, approximate, accurate string, realPaths map[string]bool, tracked map[episodeKey]bool) {
	size := stubs.FileSize(accurate)
	switch {
	case size >= minValidStubSize:
		// a genuine accurate stub is already there
		s.removeFile(log, approximate)

	case size >= 0:
		// the accurate file is corrupt or incomplete: start over from the
		// default placeholder, the accurate copy is retried on a future pass
		s.removeFile(log, accurate)
		if s.copyClosestStub(log, stubs.DefaultMinutes, approximate) {
			s.trackPlaceholder(series, rec, approximate, tracked)
		}

	default:
		s.removeFile(log, approximate)
		if realPaths[accurate] {
			return
		}
		s.copyClosestStub(log, minutes, accurate)
	}
}

func (s *Service) copyClosestStub(log logger.Logger, minutes int, dst string) bool {
	stub, ok := stubs.FindClosest(minutes, s.stubsDir)
	if !ok {
		log.Logf(logger.WarnLevel, "No suitable stub for %d minutes in %s", minutes, s.stubsDir)
		return false
	}
	if err := stubs.Copy(stub, dst); err != nil {
		log.Logf(logger.WarnLevel, "Copy stub to %s failed: %s", dst, err)
		return false
	}
	return true
}

func (s *Service) trackPlaceholder(series *model.Item, rec model.EpisodeRecord, path string, tracked map[episodeKey]bool) {
	s.placeholders.Add(registry.PlaceholderEntry{
		SeriesID: series.SeriesID,
		Season:   rec.Season,
		Episode:  rec.Episode,
		Path:     path,
	})
	tracked[episodeKey{rec.Season, rec.Episode}] = true
}

func (s *Service) removeFile(log logger.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Logf(logger.WarnLevel, "Remove %s failed: %s", path, err)
	}
}

func seasonSet(bySeason map[int][]model.EpisodeRecord) map[int]bool {
	result := make(map[int]bool, len(bySeason))
	for no := range bySeason {
		result[no] = true
	}
	return result
}
