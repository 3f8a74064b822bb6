package episodes

import (
	"context"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/lock"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/schedule"
	"go-micro.dev/v4"
	"go-micro.dev/v4/logger"
	"go-micro.dev/v4/server"
)

// Attach subscribes to host library notifications
func (s *Service) Attach(srv server.Server) error {
	s.attached.Store(true)
	return micro.RegisterSubscriber(model.LibraryEventsTopic, srv, s.handleLibraryEvent)
}

// Detach stops reacting to host notifications; the transport subscription
// stays registered, incoming events are ignored
func (s *Service) Detach() {
	s.attached.Store(false)
}

// handleLibraryEvent never returns an error: a failure here must not disrupt
// the host event dispatch
func (s *Service) handleLibraryEvent(ctx context.Context, event *model.LibraryEvent) error {
	if !s.attached.Load() {
		return nil
	}

	switch event.Kind {
	case model.EventRefreshCompleted:
		s.onRefreshCompleted(ctx, event)
	case model.EventItemUpdated:
		s.onItemUpdated(ctx, event)
	case model.EventItemRemoved:
		s.onItemRemoved(ctx, event)
	default:
		logger.Warnf("Unknown library event: %d", event.Kind)
	}
	return nil
}

func (s *Service) onRefreshCompleted(ctx context.Context, event *model.LibraryEvent) {
	item, err := s.db.GetItem(ctx, event.ItemID)
	if err != nil || item == nil {
		return
	}
	if item.Kind != model.KindSeries && item.Kind != model.KindSeason {
		return
	}
	if !s.featureEnabled(ctx, item.LibraryID) {
		return
	}

	if item.Kind == model.KindSeries {
		if event.AverageRuntime > 0 {
			s.runtimes.Set(item.SeriesID, event.AverageRuntime)
		}
		s.sched.Add(s.makeSeriesTask(item))
		return
	}

	series, err := s.db.GetItem(ctx, item.ParentID)
	if err != nil || series == nil {
		return
	}
	s.sched.Add(s.makeSeasonTask(series, item))
}

// onItemUpdated deletes the virtual sibling displaced by a freshly-authored
// real item
func (s *Service) onItemUpdated(ctx context.Context, event *model.LibraryEvent) {
	item, err := s.db.GetItem(ctx, event.ItemID)
	if err != nil || item == nil || item.Virtual {
		return
	}
	if item.Kind != model.KindSeason && item.Kind != model.KindEpisode {
		return
	}
	if !s.featureEnabled(ctx, item.LibraryID) {
		return
	}

	s.sched.Add(&schedule.Task{
		Group: taskGroup(item.SeriesID),
		Fn: func(ctx context.Context) {
			s.displaceVirtualSiblings(ctx, item)
		},
	})
}

func (s *Service) displaceVirtualSiblings(ctx context.Context, item *model.Item) {
	virtual := true
	siblings, err := s.db.QueryItems(ctx, model.ItemFilter{
		Kind:     &item.Kind,
		ParentID: &item.ParentID,
		Season:   &item.Season,
		Virtual:  &virtual,
	})
	if err != nil {
		logger.Warnf("Find virtual siblings of %s failed: %s", item.ID, err)
		return
	}

	for _, e := range siblings {
		if e.ID == item.ID {
			continue
		}
		if item.Kind == model.KindEpisode && !e.ContainsEpisode(item.Episode) {
			continue
		}
		logger.Infof("Real item displaces virtual %s S%02dE%02d", e.Kind, e.Season, e.Episode)
		if err = s.db.DeleteItem(ctx, e.ID, false); err != nil {
			logger.Warnf("Delete displaced virtual item failed: %s", err)
		}
	}
}

// onItemRemoved re-synthesizes a virtual entry in place of a removed real
// one, so the catalog never loses a slot because a file was deleted
func (s *Service) onItemRemoved(ctx context.Context, event *model.LibraryEvent) {
	item := event.Item
	if item == nil || item.Virtual {
		return
	}
	if !s.featureEnabled(ctx, item.LibraryID) {
		return
	}

	switch item.Kind {
	case model.KindSeason:
		s.restoreSeason(ctx, item)
	case model.KindEpisode:
		s.restoreEpisode(ctx, item)
	}
}

func (s *Service) restoreSeason(ctx context.Context, removed *model.Item) {
	series, err := s.db.GetItem(ctx, removed.ParentID)
	if err != nil || series == nil || series.SeriesID == 0 {
		return
	}

	s.sched.Add(&schedule.Task{
		Group: taskGroup(series.SeriesID),
		Fn: func(ctx context.Context) {
			log := logger.Fields(map[string]interface{}{
				"op":     "restoreSeason",
				"series": series.SeriesID,
				"season": removed.Season,
			})

			lk, err := lock.TimedLock(ctx, s.lk, series.SeriesID, lockWait)
			if err != nil {
				log.Logf(logger.WarnLevel, "Lock series failed: %s", err)
				return
			}
			defer lk.Unlock()

			opts := s.libraryOptions(log, ctx, series.LibraryID)
			season, err := s.addVirtualSeason(log, ctx, series, removed.Season, opts)
			if err != nil {
				log.Logf(logger.WarnLevel, "Restore season failed: %s", err)
				return
			}
			s.reconcileSeasonPass(log, ctx, series, season)
		},
	})
}

func (s *Service) restoreEpisode(ctx context.Context, removed *model.Item) {
	season, err := s.db.GetItem(ctx, removed.ParentID)
	if err != nil || season == nil {
		return
	}
	series, err := s.db.GetItem(ctx, season.ParentID)
	if err != nil || series == nil || series.SeriesID == 0 {
		return
	}

	s.sched.Add(&schedule.Task{
		Group: taskGroup(series.SeriesID),
		Fn: func(ctx context.Context) {
			log := logger.Fields(map[string]interface{}{
				"op":     "restoreEpisode",
				"series": series.SeriesID,
				"season": removed.Season,
			})

			lk, err := lock.TimedLock(ctx, s.lk, series.SeriesID, lockWait)
			if err != nil {
				log.Logf(logger.WarnLevel, "Lock series failed: %s", err)
				return
			}
			defer lk.Unlock()

			remote := s.filterSpecials(s.fetchEpisodes(log, ctx, series))
			for _, rec := range remote {
				if rec.Episode < 0 || rec.Season != removed.Season || !removed.ContainsEpisode(rec.Episode) {
					continue
				}
				opts := s.libraryOptions(log, ctx, series.LibraryID)
				s.addVirtualEpisode(log, ctx, series, season, rec, opts)
				return
			}
			log.Log(logger.DebugLevel, "Removed episode is unknown to the remote catalog")
		},
	})
}

func (s *Service) makeSeasonTask(series, season *model.Item) *schedule.Task {
	return &schedule.Task{
		Group: taskGroup(series.SeriesID),
		Fn: func(ctx context.Context) {
			log := logger.Fields(map[string]interface{}{
				"op":     "reconcileSeason",
				"series": series.SeriesID,
				"season": season.Season,
			})

			lk, err := lock.TimedLock(ctx, s.lk, series.SeriesID, lockWait)
			if err != nil {
				log.Logf(logger.WarnLevel, "Lock series failed: %s", err)
				return
			}
			defer lk.Unlock()

			s.reconcileSeasonPass(log, ctx, series, season)
		},
	}
}

func (s *Service) featureEnabled(ctx context.Context, libraryID string) bool {
	opts, err := s.db.GetLibraryOptions(ctx, libraryID)
	if err != nil {
		logger.Warnf("Load library options failed: %s", err)
		return false
	}
	return opts.Enabled
}
