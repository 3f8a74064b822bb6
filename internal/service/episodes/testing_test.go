package episodes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/config"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/lock"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/registry"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/schedule"
	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory library tree
type fakeDB struct {
	mu      sync.Mutex
	items   map[model.ID]*model.Item
	options map[string]*model.LibraryOptions

	created int
	deleted int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		items:   map[model.ID]*model.Item{},
		options: map[string]*model.LibraryOptions{},
	}
}

func (d *fakeDB) CreateItem(_ context.Context, item *model.Item) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := *item
	d.items[item.ID] = &copied
	d.created++
	return nil
}

func (d *fakeDB) DeleteItem(_ context.Context, id model.ID, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[id]; ok {
		delete(d.items, id)
		d.deleted++
	}
	return nil
}

func (d *fakeDB) GetItem(_ context.Context, id model.ID) (*model.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (d *fakeDB) QueryItems(_ context.Context, f model.ItemFilter) ([]*model.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var results []*model.Item
	for _, item := range d.items {
		if f.Kind != nil && item.Kind != *f.Kind {
			continue
		}
		if f.ParentID != nil && item.ParentID != *f.ParentID {
			continue
		}
		if f.SeriesID != nil && item.SeriesID != *f.SeriesID {
			continue
		}
		if f.Season != nil && item.Season != *f.Season {
			continue
		}
		if f.Virtual != nil && item.Virtual != *f.Virtual {
			continue
		}
		copied := *item
		results = append(results, &copied)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Season != results[j].Season {
			return results[i].Season < results[j].Season
		}
		return results[i].Episode < results[j].Episode
	})
	return results, nil
}

func (d *fakeDB) SearchSeries(ctx context.Context) ([]*model.Item, error) {
	kind := model.KindSeries
	return d.QueryItems(ctx, model.ItemFilter{Kind: &kind})
}

func (d *fakeDB) SetSeriesRemoteID(_ context.Context, id model.ID, seriesID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.items[id]
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}
	item.SeriesID = seriesID
	return nil
}

func (d *fakeDB) GetLibraryOptions(_ context.Context, libraryID string) (*model.LibraryOptions, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if opts, ok := d.options[libraryID]; ok {
		copied := *opts
		return &copied, nil
	}
	return model.DefaultLibraryOptions(libraryID), nil
}

func (d *fakeDB) mutations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created + d.deleted
}

// fakeCatalog serves a fixed episode list
type fakeCatalog struct {
	episodes []model.EpisodeRecord
	matches  []model.SeriesMatch
	err      error
}

func (c *fakeCatalog) GetSeriesEpisodes(context.Context, int64, string, model.EpisodeOrder) ([]model.EpisodeRecord, error) {
	return c.episodes, c.err
}

func (c *fakeCatalog) SearchSeries(context.Context, string) ([]model.SeriesMatch, error) {
	return c.matches, c.err
}

// syncScheduler runs tasks inline, which makes event adapter tests deterministic
type syncScheduler struct{}

func (syncScheduler) Add(t *schedule.Task) bool {
	t.Fn(context.Background())
	return true
}

func (syncScheduler) Cancel(string) {}

type env struct {
	svc          *Service
	db           *fakeDB
	catalog      *fakeCatalog
	runtimes     *registry.RuntimeRegistry
	placeholders *registry.PlaceholderRegistry
	stubsDir     string
	series       *model.Item
	seq          int
}

func newEnv(t *testing.T, cfg config.Sync) *env {
	t.Helper()

	state := t.TempDir()
	e := &env{
		db:           newFakeDB(),
		catalog:      &fakeCatalog{},
		runtimes:     registry.NewRuntimeRegistry(filepath.Join(state, "runtime.db")),
		placeholders: registry.NewPlaceholderRegistry(filepath.Join(state, "placeholders.db")),
		stubsDir:     t.TempDir(),
	}

	e.svc = NewService(Settings{
		Database:     e.db,
		Catalog:      e.catalog,
		Runtimes:     e.runtimes,
		Placeholders: e.placeholders,
		Scheduler:    syncScheduler{},
		Locker:       lock.NewLocker(),
		Sync:         cfg,
		StubsDir:     e.stubsDir,
	})
	e.svc.attached.Store(true)
	return e
}

func (e *env) addSeries(t *testing.T, seriesID int64, rootPath string) *model.Item {
	t.Helper()
	series := &model.Item{
		ID:       model.MakeItemID(fmt.Sprintf("test-series-%d", seriesID)),
		Kind:     model.KindSeries,
		SeriesID: seriesID,
		Title:    "Test Series",
		Season:   -1,
		Episode:  -1,
		RootPath: rootPath,
	}
	require.NoError(t, e.db.CreateItem(context.Background(), series))
	e.series = series
	return series
}

func (e *env) addSeason(t *testing.T, no int, virtual bool) *model.Item {
	t.Helper()
	season := &model.Item{
		ID:       model.MakeItemID(fmt.Sprintf("test-season-%d-%d", e.series.SeriesID, no)),
		Kind:     model.KindSeason,
		ParentID: e.series.ID,
		SeriesID: e.series.SeriesID,
		Title:    fmt.Sprintf("Season %d", no),
		Season:   no,
		Episode:  -1,
		Virtual:  virtual,
	}
	require.NoError(t, e.db.CreateItem(context.Background(), season))
	return season
}

func (e *env) addEpisode(t *testing.T, season *model.Item, no int, virtual bool, path string) *model.Item {
	t.Helper()
	e.seq++
	episode := &model.Item{
		ID:         model.MakeItemID(fmt.Sprintf("test-episode-%d-%d-%d-%d", e.series.SeriesID, season.Season, no, e.seq)),
		Kind:       model.KindEpisode,
		ParentID:   season.ID,
		SeriesID:   e.series.SeriesID,
		Title:      fmt.Sprintf("Episode %d", no),
		Season:     season.Season,
		Episode:    no,
		EpisodeEnd: no,
		Virtual:    virtual,
		Path:       path,
	}
	require.NoError(t, e.db.CreateItem(context.Background(), episode))
	return episode
}

func (e *env) writeStub(t *testing.T, name string, size int) {
	t.Helper()
	content := make([]byte, size)
	require.NoError(t, os.WriteFile(filepath.Join(e.stubsDir, name), content, 0644))
}

func record(seriesID int64, season, episode int, title string) model.EpisodeRecord {
	return model.EpisodeRecord{
		SeriesID: seriesID,
		Season:   season,
		Episode:  episode,
		Title:    title,
	}
}
