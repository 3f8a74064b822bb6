package episodes

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/stubs"
	"github.com/go-openapi/strfmt"
	"go-micro.dev/v4/logger"
)

// addVirtualSeason synthesizes a season entry and hands it to the library
// tree. The ID is derived from the series ID, the number and the display
// name, so repeated passes address the same entry.
func (s *Service) addVirtualSeason(log logger.Logger, ctx context.Context, series *model.Item, no int, opts *model.LibraryOptions) (*model.Item, error) {
	name := opts.SeasonName(no)
	season := &model.Item{
		ID:         model.MakeItemID(fmt.Sprintf("%d:season:%d:%s", series.SeriesID, no, name)),
		Kind:       model.KindSeason,
		LibraryID:  series.LibraryID,
		ParentID:   series.ID,
		SeriesID:   series.SeriesID,
		Title:      name,
		Season:     no,
		Episode:    -1,
		EpisodeEnd: -1,
		Virtual:    true,
	}

	log.Logf(logger.InfoLevel, "Creating virtual season %d", no)
	if err := s.db.CreateItem(ctx, season); err != nil {
		return nil, fmt.Errorf("create virtual season failed: %w", err)
	}

	s.queueRefresh(ctx, season.ID)
	return season, nil
}

// addVirtualEpisode synthesizes an episode entry from a remote record. When a
// stub file already exists at the expected path, the entry references it and
// counts as physical even though the content is a placeholder.
func (s *Service) addVirtualEpisode(log logger.Logger, ctx context.Context, series, season *model.Item, rec model.EpisodeRecord, opts *model.LibraryOptions) {
	episode := &model.Item{
		ID:         model.MakeItemID(fmt.Sprintf("%d:episode:%d:%d:%s", series.SeriesID, rec.Season, rec.Episode, rec.Title)),
		Kind:       model.KindEpisode,
		LibraryID:  series.LibraryID,
		ParentID:   season.ID,
		SeriesID:   series.SeriesID,
		Title:      rec.Title,
		Overview:   rec.Overview,
		Season:     rec.Season,
		Episode:    rec.Episode,
		EpisodeEnd: rec.Episode,
		Virtual:    true,
	}

	if s.cfg.CreateStubFiles && series.RootPath != "" {
		path := filepath.Join(
			series.RootPath,
			opts.SeasonName(rec.Season),
			stubs.EpisodeBaseName(rec.Season, rec.Episode, rec.Title)+stubs.ApproximateExt,
		)
		if stubs.FileExists(path) {
			episode.Path = path
			episode.Virtual = false
		}
	}

	// airs-hints make sense under the source's native order only
	if series.Order == model.OrderAired {
		episode.AirsBeforeSeason = rec.AirsBeforeSeason
		episode.AirsAfterSeason = rec.AirsAfterSeason
		episode.AirsBeforeEpisode = rec.AirsBeforeEpisode
	}

	if rec.Aired != "" {
		if premiere, err := time.Parse(strfmt.RFC3339FullDate, rec.Aired); err == nil {
			episode.Premiere = &premiere
		}
	}

	log.Logf(logger.InfoLevel, "Creating virtual episode S%02dE%02d", rec.Season, rec.Episode)
	if err := s.db.CreateItem(ctx, episode); err != nil {
		log.Logf(logger.WarnLevel, "Create virtual episode S%02dE%02d failed: %s", rec.Season, rec.Episode, err)
		return
	}

	s.queueRefresh(ctx, episode.ID)
}
