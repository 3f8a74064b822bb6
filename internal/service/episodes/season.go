package episodes

import (
	"context"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"go-micro.dev/v4/logger"
)

// reconcileSeason aligns one season with the remote records of its number.
// Real episodes are never deleted here; virtual ones are deleted when a
// physical copy supersedes them or when the remote record is gone.
func (s *Service) reconcileSeason(log logger.Logger, ctx context.Context, series, season *model.Item, remote []model.EpisodeRecord, opts *model.LibraryOptions) {
	if season.Season < 0 {
		log.Logf(logger.DebugLevel, "Season %s has no index number, skipped", season.ID)
		return
	}

	var seasonRemote []model.EpisodeRecord
	for _, rec := range remote {
		if rec.Season == season.Season {
			seasonRemote = append(seasonRemote, rec)
		}
	}

	episodeKind := model.KindEpisode
	existing, err := s.db.QueryItems(ctx, model.ItemFilter{Kind: &episodeKind, ParentID: &season.ID})
	if err != nil {
		log.Logf(logger.ErrorLevel, "Enumerate episodes of season %d failed: %s", season.Season, err)
		return
	}

	removed := map[model.ID]bool{}

	for _, rec := range seasonRemote {
		if rec.Episode < 0 {
			continue
		}

		var matches []*model.Item
		hasReal := false
		for _, e := range existing {
			if removed[e.ID] {
				continue
			}
			if e.Season == rec.Season && e.ContainsEpisode(rec.Episode) {
				matches = append(matches, e)
				if !e.Virtual {
					hasReal = true
				}
			}
		}

		if hasReal {
			// the physical copy supersedes synthetic entries
			for _, e := range matches {
				if !e.Virtual {
					continue
				}
				if err = s.db.DeleteItem(ctx, e.ID, false); err != nil {
					log.Logf(logger.WarnLevel, "Delete superseded episode S%02dE%02d failed: %s", e.Season, e.Episode, err)
					continue
				}
				removed[e.ID] = true
			}
			continue
		}

		if len(matches) != 0 {
			continue
		}

		s.addVirtualEpisode(log, ctx, series, season, rec, opts)
	}

	// stale synthetic entries cleanup
	for _, e := range existing {
		if removed[e.ID] || !e.Virtual {
			continue
		}
		matched := false
		for _, rec := range seasonRemote {
			if rec.Episode >= 0 && e.Season == rec.Season && e.ContainsEpisode(rec.Episode) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		log.Logf(logger.InfoLevel, "Deleting stale virtual episode S%02dE%02d", e.Season, e.Episode)
		if err = s.db.DeleteItem(ctx, e.ID, false); err != nil {
			log.Logf(logger.WarnLevel, "Delete stale episode S%02dE%02d failed: %s", e.Season, e.Episode, err)
		}
	}
}
