// Package catalog is a client to the remote metadata discovery service.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/config"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
)

// Client fetches series metadata from the discovery service
type Client struct {
	tr   runtime.ClientTransport
	auth runtime.ClientAuthInfoWriter
}

// New creates a discovery client authorized by the device API key
func New(remote config.Remote, device string) *Client {
	host := fmt.Sprintf("%s:%d", remote.Host, remote.Port)
	tr := httptransport.New(host, remote.Path, []string{remote.Scheme})
	return &Client{
		tr:   tr,
		auth: httptransport.APIKeyAuth("X-Token", "header", device),
	}
}

// GetSeriesEpisodes returns the remote episode catalog of a series, ordered
// per the requested ordering scheme
func (c *Client) GetSeriesEpisodes(ctx context.Context, seriesID int64, language string, order model.EpisodeOrder) ([]model.EpisodeRecord, error) {
	op := &runtime.ClientOperation{
		ID:                 "GetSeriesEpisodes",
		Method:             "GET",
		PathPattern:        "/series/{id}/episodes",
		ProducesMediaTypes: []string{"application/json"},
		ConsumesMediaTypes: []string{"application/json"},
		AuthInfo:           c.auth,
		Context:            ctx,
		Params: runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
			if err := req.SetPathParam("id", strconv.FormatInt(seriesID, 10)); err != nil {
				return err
			}
			if language != "" {
				if err := req.SetQueryParam("language", language); err != nil {
					return err
				}
			}
			if order != model.OrderAired {
				return req.SetQueryParam("order", string(order))
			}
			return nil
		}),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
			if resp.Code() != 200 {
				return nil, fmt.Errorf("get episodes failed: %s", resp.Message())
			}
			var payload episodesResponse
			if err := consumer.Consume(resp.Body(), &payload); err != nil {
				return nil, err
			}
			return &payload, nil
		}),
	}

	result, err := c.tr.Submit(op)
	if err != nil {
		return nil, err
	}

	payload := result.(*episodesResponse)
	records := make([]model.EpisodeRecord, 0, len(payload.Episodes))
	for _, e := range payload.Episodes {
		rec := model.EpisodeRecord{
			SeriesID:          seriesID,
			Season:            e.SeasonNumber,
			Episode:           -1,
			Title:             e.Name,
			Overview:          e.Overview,
			Aired:             e.Aired,
			AirsBeforeSeason:  e.AirsBeforeSeason,
			AirsAfterSeason:   e.AirsAfterSeason,
			AirsBeforeEpisode: e.AirsBeforeEpisode,
		}
		if e.EpisodeNumber != nil {
			rec.Episode = *e.EpisodeNumber
		}
		records = append(records, rec)
	}
	return records, nil
}

// SearchSeries looks up remote series by a title
func (c *Client) SearchSeries(ctx context.Context, title string) ([]model.SeriesMatch, error) {
	op := &runtime.ClientOperation{
		ID:                 "SearchSeries",
		Method:             "GET",
		PathPattern:        "/series/search",
		ProducesMediaTypes: []string{"application/json"},
		ConsumesMediaTypes: []string{"application/json"},
		AuthInfo:           c.auth,
		Context:            ctx,
		Params: runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
			return req.SetQueryParam("q", title)
		}),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
			if resp.Code() != 200 {
				return nil, fmt.Errorf("search series failed: %s", resp.Message())
			}
			var payload searchResponse
			if err := consumer.Consume(resp.Body(), &payload); err != nil {
				return nil, err
			}
			return &payload, nil
		}),
	}

	result, err := c.tr.Submit(op)
	if err != nil {
		return nil, err
	}

	payload := result.(*searchResponse)
	matches := make([]model.SeriesMatch, 0, len(payload.Results))
	for _, m := range payload.Results {
		matches = append(matches, model.SeriesMatch{ID: m.ID, Title: m.Title, Year: m.Year})
	}
	return matches, nil
}
