package model

// EpisodeOrder is an episode ordering scheme of the remote metadata source
type EpisodeOrder string

const (
	// OrderAired is the source's native order, used when nothing is configured
	OrderAired    EpisodeOrder = ""
	OrderDVD      EpisodeOrder = "dvd"
	OrderAbsolute EpisodeOrder = "absolute"
)

// EpisodeRecord is a snapshot of a remote episode, fetched per reconciliation
// pass and never persisted
type EpisodeRecord struct {
	SeriesID int64

	Season int

	// Episode is -1 when the source does not define an episode number
	Episode int

	Title    string
	Overview string

	// Aired is a raw date string as the source reports it (YYYY-MM-DD)
	Aired string

	AirsBeforeSeason  int
	AirsAfterSeason   int
	AirsBeforeEpisode int
}

// SeriesMatch is a single result of a series lookup by title
type SeriesMatch struct {
	ID    int64
	Title string
	Year  int
}
