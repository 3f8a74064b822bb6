package model

import "time"

type ItemKind int

const (
	KindSeries ItemKind = iota
	KindSeason
	KindEpisode
)

func (k ItemKind) String() string {
	switch k {
	case KindSeries:
		return "series"
	case KindSeason:
		return "season"
	case KindEpisode:
		return "episode"
	}
	return "unknown"
}

// Item is an entry of the local library tree: a series, a season or an episode
type Item struct {
	ID ID `bson:"_id,omitempty"`

	Kind ItemKind

	// LibraryID refers a library which the item belongs to
	LibraryID string

	// ParentID refers the series for seasons and the season for episodes
	ParentID ID

	// SeriesID is ID of the series on the remote metadata source, 0 if unknown
	SeriesID int64

	Title    string
	Overview string

	// Season is a season number; valid for seasons and episodes, -1 if unknown
	Season int

	// Episode and EpisodeEnd are a range of episode numbers which the item covers.
	// Usually EpisodeEnd == Episode, a multi-episode file covers a wider range.
	// -1 if unknown.
	Episode    int
	EpisodeEnd int

	// Virtual means there is no real media file behind the item
	Virtual bool

	// Path to the media file, empty for virtual items
	Path string

	// Premiere is an aired date of an episode
	Premiere *time.Time

	// Airs-hints are propagated from the remote source under the native ordering only
	AirsBeforeSeason  int
	AirsAfterSeason   int
	AirsBeforeEpisode int

	// RootPath is a directory of series content on a disk; valid for series
	RootPath string

	// Order is a configured episode ordering scheme; valid for series
	Order EpisodeOrder
}

// ContainsEpisode reports whether the item's episode number range covers no
func (i *Item) ContainsEpisode(no int) bool {
	if i.Episode < 0 || no < 0 {
		return false
	}
	end := i.EpisodeEnd
	if end < i.Episode {
		end = i.Episode
	}
	return i.Episode <= no && no <= end
}

// ItemFilter is a filter for library tree queries, nil fields are ignored
type ItemFilter struct {
	Kind     *ItemKind
	ParentID *ID
	SeriesID *int64
	Season   *int
	Virtual  *bool
}
