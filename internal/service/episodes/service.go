// Package episodes keeps the local episode catalog consistent with the
// remote metadata source: it synthesizes virtual seasons and episodes for
// remote entries which have no local media yet, cleans up stale synthetic
// entries and manages stub media files standing in for missing episodes.
package episodes

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/config"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/lock"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/schedule"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/selector"
	"go-micro.dev/v4"
	"go-micro.dev/v4/logger"
)

const lockWait = 5 * time.Second

const initialSweepSpread = 240

// Service is the reconciliation engine and its event adapters
type Service struct {
	db           Database
	catalog      Catalog
	runtimes     RuntimeRegistry
	placeholders PlaceholderRegistry
	pub          micro.Event
	sched        Scheduler
	lk           lock.Locker
	cfg          config.Sync
	stubsDir     string

	attached atomic.Bool
}

// Settings holds all dependencies of service
type Settings struct {
	Database     Database
	Catalog      Catalog
	Runtimes     RuntimeRegistry
	Placeholders PlaceholderRegistry
	Publisher    micro.Event
	Scheduler    Scheduler
	Locker       lock.Locker
	Sync         config.Sync
	StubsDir     string
}

func NewService(settings Settings) *Service {
	return &Service{
		db:           settings.Database,
		catalog:      settings.Catalog,
		runtimes:     settings.Runtimes,
		placeholders: settings.Placeholders,
		pub:          settings.Publisher,
		sched:        settings.Scheduler,
		lk:           settings.Locker,
		cfg:          settings.Sync,
		stubsDir:     settings.StubsDir,
	}
}

// Initialize binds known series to the remote catalog and schedules the
// initial reconciliation sweep
func (s *Service) Initialize() error {
	series, err := s.db.SearchSeries(context.Background())
	if err != nil {
		return err
	}

	for _, item := range series {
		logger.Debugf("Series found: %s", item.Title)

		if item.SeriesID == 0 {
			s.resolveSeriesID(item)
		}
		if item.SeriesID == 0 {
			continue
		}

		task := s.makeSeriesTask(item)
		task.After(time.Duration(rand.Intn(initialSweepSpread)) * time.Second)
		s.sched.Add(task)
	}

	return nil
}

// ScheduleSync puts a reconciliation pass for a series ahead of the queue
func (s *Service) ScheduleSync(seriesID int64) bool {
	kind := model.KindSeries
	items, err := s.db.QueryItems(context.Background(), model.ItemFilter{Kind: &kind, SeriesID: &seriesID})
	if err != nil {
		logger.Warnf("Find series %d failed: %s", seriesID, err)
		return false
	}
	if len(items) == 0 {
		return false
	}

	return s.sched.Add(s.makeSeriesTask(items[0]).Immediately())
}

func (s *Service) makeSeriesTask(series *model.Item) *schedule.Task {
	return &schedule.Task{
		Group: taskGroup(series.SeriesID),
		Fn: func(ctx context.Context) {
			log := logger.Fields(map[string]interface{}{
				"op":     "reconcileSeries",
				"series": series.SeriesID,
				"title":  series.Title,
			})

			lk, err := lock.TimedLock(ctx, s.lk, series.SeriesID, lockWait)
			if err != nil {
				log.Logf(logger.WarnLevel, "Lock series failed: %s", err)
				return
			}
			defer lk.Unlock()

			// the item could change since the task was scheduled
			fresh, err := s.db.GetItem(ctx, series.ID)
			if err != nil || fresh == nil {
				log.Logf(logger.DebugLevel, "Series is gone, nothing to do")
				return
			}

			s.reconcileSeries(log, ctx, fresh)
		},
	}
}

// resolveSeriesID looks up the remote catalog ID of a series by its title
func (s *Service) resolveSeriesID(item *model.Item) {
	ctx := context.Background()

	matches, err := s.catalog.SearchSeries(ctx, item.Title)
	if err != nil {
		logger.Warnf("Search series '%s' failed: %s", item.Title, err)
		return
	}

	sel, ok := selector.BestMatch(item.Title, matches)
	if !ok {
		logger.Debugf("No close remote match for series '%s'", item.Title)
		return
	}

	if err = s.db.SetSeriesRemoteID(ctx, item.ID, sel.ID); err != nil {
		logger.Warnf("Bind series '%s' to remote ID %d failed: %s", item.Title, sel.ID, err)
		return
	}
	item.SeriesID = sel.ID
}

func (s *Service) queueRefresh(ctx context.Context, id model.ID) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, &model.RefreshRequest{ItemID: id, Priority: true}); err != nil {
		logger.Warnf("Queue metadata refresh of %s failed: %s", id, err)
	}
}

func taskGroup(seriesID int64) string {
	return strconv.FormatInt(seriesID, 10)
}
