package episodes

import (
	"context"
	"testing"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/config"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-micro.dev/v4/logger"
)

func TestReconcileSeriesCreatesVirtualItems(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
		record(100, 1, 2, "Second"),
		record(100, 2, 1, "Premiere"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	kind := model.KindSeason
	seasons, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &series.ID})
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 1, seasons[0].Season)
	assert.Equal(t, 2, seasons[1].Season)
	assert.True(t, seasons[0].Virtual)

	kind = model.KindEpisode
	episodes, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &seasons[0].ID})
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "Pilot", episodes[0].Title)
	assert.True(t, episodes[0].Virtual)
}

func TestReconcileSeriesIdempotent(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
		record(100, 1, 2, "Second"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)
	before := e.db.mutations()

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)
	assert.Equal(t, before, e.db.mutations(), "second pass must not touch the tree")
}

func TestReconcileSeasonRemovesStaleVirtuals(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, true)
	e.addEpisode(t, season, 1, true, "")
	e.addEpisode(t, season, 2, true, "")
	stale := e.addEpisode(t, season, 3, true, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
		record(100, 1, 2, "Second"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	gone, err := e.db.GetItem(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "stale virtual episode must be deleted")

	kind := model.KindEpisode
	left, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &season.ID})
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestReconcileSeasonNeverDeletesRealEpisodes(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, false)
	real := e.addEpisode(t, season, 5, false, "/media/s01e05.mkv")
	// the remote catalog knows nothing about this episode
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	kept, err := e.db.GetItem(context.Background(), real.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.False(t, kept.Virtual)
}

func TestReconcileSeasonRealDisplacesVirtual(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, false)
	real := e.addEpisode(t, season, 1, false, "/media/s01e01.mkv")
	virtual := e.addEpisode(t, season, 1, true, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	gone, err := e.db.GetItem(context.Background(), virtual.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "virtual duplicate must yield to the physical copy")

	kept, err := e.db.GetItem(context.Background(), real.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestReconcileSeriesEmptyCatalogKeepsTree(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, true)
	e.addEpisode(t, season, 1, true, "")
	e.catalog.episodes = nil

	before := e.db.mutations()
	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)
	assert.Equal(t, before, e.db.mutations(), "empty remote answer must not drive deletions")
}

func TestReconcileSeriesEmptyCatalogRemovesWhenRequested(t *testing.T) {
	e := newEnv(t, config.Sync{RemoveMissingEpisodes: true})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, true)
	virtual := e.addEpisode(t, season, 1, true, "")
	e.catalog.episodes = nil

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	gone, err := e.db.GetItem(context.Background(), virtual.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestReconcileSeriesSkipsSpecialsByDefault(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 0, 1, "Behind the Scenes"),
		record(100, 1, 1, "Pilot"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	kind := model.KindSeason
	seasons, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &series.ID})
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].Season)
}

func TestReconcileSeriesIncludesSpecialsWhenEnabled(t *testing.T) {
	e := newEnv(t, config.Sync{IncludeMissingSpecials: true})
	series := e.addSeries(t, 100, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 0, 1, "Behind the Scenes"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	kind := model.KindSeason
	seasons, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &series.ID})
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 0, seasons[0].Season)
	assert.Equal(t, "Specials", seasons[0].Title)
}

func TestReconcileSeriesDeletesEmptyOrphanSeason(t *testing.T) {
	e := newEnv(t, config.Sync{RemoveMissingEpisodes: true})
	series := e.addSeries(t, 100, "")
	orphan := e.addSeason(t, 3, true)
	populated := e.addSeason(t, 4, false)
	e.addEpisode(t, populated, 1, false, "/media/s04e01.mkv")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	gone, err := e.db.GetItem(context.Background(), orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "empty season unknown to the remote must go away")

	kept, err := e.db.GetItem(context.Background(), populated.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept, "season holding episodes must stay even if the remote dropped it")
}

func TestReconcileSeriesSkipsUnboundSeries(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 0, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Pilot"),
	}

	before := e.db.mutations()
	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)
	assert.Equal(t, before, e.db.mutations())
}

func TestReconcileSeasonIgnoresUnknownEpisodeNumbers(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, -1, "TBA"),
		record(100, 1, 1, "Pilot"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	kind := model.KindEpisode
	episodes, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, SeriesID: &series.SeriesID})
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "Pilot", episodes[0].Title)
}

func TestReconcileSeasonMultiEpisodeItemCoversRange(t *testing.T) {
	e := newEnv(t, config.Sync{})
	series := e.addSeries(t, 100, "")
	season := e.addSeason(t, 1, false)

	double := e.addEpisode(t, season, 1, false, "/media/s01e01-02.mkv")
	double.EpisodeEnd = 2
	require.NoError(t, e.db.CreateItem(context.Background(), double))

	e.catalog.episodes = []model.EpisodeRecord{
		record(100, 1, 1, "Part One"),
		record(100, 1, 2, "Part Two"),
		record(100, 1, 3, "Part Three"),
	}

	e.svc.reconcileSeries(logger.DefaultLogger, context.Background(), series)

	// the double episode covers E1 and E2, only E3 needs a virtual entry
	virtual := true
	kind := model.KindEpisode
	created, err := e.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, ParentID: &season.ID, Virtual: &virtual})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 3, created[0].Episode)
}
