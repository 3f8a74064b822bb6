package episodes

import (
	"context"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/registry"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/schedule"
)

// Database requires some methods for access to the local library tree
type Database interface {
	CreateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id model.ID, deleteFiles bool) error
	GetItem(ctx context.Context, id model.ID) (*model.Item, error)
	QueryItems(ctx context.Context, f model.ItemFilter) ([]*model.Item, error)
	SearchSeries(ctx context.Context) ([]*model.Item, error)
	SetSeriesRemoteID(ctx context.Context, id model.ID, seriesID int64) error
	GetLibraryOptions(ctx context.Context, libraryID string) (*model.LibraryOptions, error)
}

// Catalog is a client to the remote metadata source
type Catalog interface {
	GetSeriesEpisodes(ctx context.Context, seriesID int64, language string, order model.EpisodeOrder) ([]model.EpisodeRecord, error)
	SearchSeries(ctx context.Context, title string) ([]model.SeriesMatch, error)
}

// RuntimeRegistry stores observed average episode durations
type RuntimeRegistry interface {
	Set(seriesID int64, minutes int)
	Get(seriesID int64) (int, bool)
}

// PlaceholderRegistry tracks approximate stub files pending an upgrade
type PlaceholderRegistry interface {
	Add(entry registry.PlaceholderEntry)
	Remove(seriesID int64, season, episode int)
	ListForSeries(seriesID int64) []registry.PlaceholderEntry
	ListAll() []registry.PlaceholderEntry
}

// Scheduler executes reconciliation jobs one at a time in submission order
type Scheduler interface {
	Add(t *schedule.Task) bool
	Cancel(group string)
}
