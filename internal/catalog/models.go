package catalog

// wire payloads of the discovery API

type episodePayload struct {
	SeasonNumber      int    `json:"seasonNumber"`
	EpisodeNumber     *int   `json:"episodeNumber"`
	Name              string `json:"name"`
	Overview          string `json:"overview"`
	Aired             string `json:"aired"`
	AirsBeforeSeason  int    `json:"airsBeforeSeason"`
	AirsAfterSeason   int    `json:"airsAfterSeason"`
	AirsBeforeEpisode int    `json:"airsBeforeEpisode"`
}

type episodesResponse struct {
	Episodes []episodePayload `json:"episodes"`
}

type seriesMatchPayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

type searchResponse struct {
	Results []seriesMatchPayload `json:"results"`
}
