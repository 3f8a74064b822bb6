package episodes

import (
	"context"
	"sort"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"go-micro.dev/v4/logger"
)

// reconcileSeries aligns the whole local tree of a series with the remote
// catalog: creates missing virtual seasons and episodes, drops stale ones and
// maintains stub files. Every failure is absorbed here, the next pass
// converges whatever this one left unfinished.
func (s *Service) reconcileSeries(log logger.Logger, ctx context.Context, series *model.Item) {
	if series.SeriesID == 0 {
		log.Log(logger.DebugLevel, "Series has no remote ID, nothing to reconcile")
		return
	}

	opts := s.libraryOptions(log, ctx, series.LibraryID)

	seasonKind := model.KindSeason
	seasons, err := s.db.QueryItems(ctx, model.ItemFilter{Kind: &seasonKind, ParentID: &series.ID})
	if err != nil {
		log.Logf(logger.ErrorLevel, "Enumerate seasons failed: %s", err)
		return
	}

	remote := s.fetchEpisodes(log, ctx, series)
	if len(remote) == 0 && !s.cfg.RemoveMissingEpisodes {
		// an empty catalog drives deletions only when explicitly requested
		return
	}
	remote = s.filterSpecials(remote)

	remoteSeasons := map[int]bool{}
	for _, rec := range remote {
		remoteSeasons[rec.Season] = true
	}

	// stub files must exist before virtual items are created, so that new
	// episode entries can reference a real path right away
	if s.cfg.CreateStubFiles && series.RootPath != "" {
		s.manageStubFiles(log, ctx, series, remote, opts)
	}

	for _, no := range sortedSeasons(remoteSeasons) {
		if findSeason(seasons, no) != nil {
			continue
		}
		season, err := s.addVirtualSeason(log, ctx, series, no, opts)
		if err != nil {
			log.Logf(logger.WarnLevel, "Create virtual season %d failed: %s", no, err)
			continue
		}
		seasons = append(seasons, season)
	}

	for _, season := range seasons {
		s.reconcileSeason(log, ctx, series, season, remote, opts)
	}

	// orphan season cleanup: a season unknown to the remote catalog is
	// deleted only when it holds no episodes at all
	for _, season := range seasons {
		if season.Season < 0 || remoteSeasons[season.Season] {
			continue
		}
		episodeKind := model.KindEpisode
		episodes, err := s.db.QueryItems(ctx, model.ItemFilter{Kind: &episodeKind, ParentID: &season.ID})
		if err != nil {
			log.Logf(logger.WarnLevel, "Enumerate episodes of season %d failed: %s", season.Season, err)
			continue
		}
		if len(episodes) != 0 {
			continue
		}
		log.Logf(logger.InfoLevel, "Deleting orphan season %d", season.Season)
		if err = s.db.DeleteItem(ctx, season.ID, false); err != nil {
			log.Logf(logger.WarnLevel, "Delete orphan season %d failed: %s", season.Season, err)
		}
	}
}

// reconcileSeasonPass is the restriction of the series algorithm to one season
func (s *Service) reconcileSeasonPass(log logger.Logger, ctx context.Context, series, season *model.Item) {
	if series.SeriesID == 0 {
		log.Log(logger.DebugLevel, "Series has no remote ID, nothing to reconcile")
		return
	}

	opts := s.libraryOptions(log, ctx, series.LibraryID)

	remote := s.fetchEpisodes(log, ctx, series)
	if len(remote) == 0 && !s.cfg.RemoveMissingEpisodes {
		return
	}
	remote = s.filterSpecials(remote)

	var restricted []model.EpisodeRecord
	for _, rec := range remote {
		if rec.Season == season.Season {
			restricted = append(restricted, rec)
		}
	}

	if s.cfg.CreateStubFiles && series.RootPath != "" {
		s.manageStubFiles(log, ctx, series, restricted, opts)
	}

	s.reconcileSeason(log, ctx, series, season, restricted, opts)
}

// fetchEpisodes degrades any remote failure to an empty catalog
func (s *Service) fetchEpisodes(log logger.Logger, ctx context.Context, series *model.Item) []model.EpisodeRecord {
	records, err := s.catalog.GetSeriesEpisodes(ctx, series.SeriesID, s.cfg.Language, series.Order)
	if err != nil {
		log.Logf(logger.WarnLevel, "Fetch remote episodes failed: %s", err)
		return nil
	}
	return records
}

func (s *Service) filterSpecials(records []model.EpisodeRecord) []model.EpisodeRecord {
	if s.cfg.IncludeMissingSpecials {
		return records
	}
	filtered := records[:0]
	for _, rec := range records {
		if rec.Season != 0 {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func (s *Service) libraryOptions(log logger.Logger, ctx context.Context, libraryID string) *model.LibraryOptions {
	opts, err := s.db.GetLibraryOptions(ctx, libraryID)
	if err != nil {
		log.Logf(logger.WarnLevel, "Load library options failed: %s", err)
		return model.DefaultLibraryOptions(libraryID)
	}
	return opts
}

func findSeason(seasons []*model.Item, no int) *model.Item {
	for _, season := range seasons {
		if season.Season == no {
			return season
		}
	}
	return nil
}

func sortedSeasons(seasons map[int]bool) []int {
	result := make([]int, 0, len(seasons))
	for no := range seasons {
		result = append(result, no)
	}
	sort.Ints(result)
	return result
}
