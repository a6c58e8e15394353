// Package video fetches government-scheme videos from the YouTube Data API.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/neokrishi/farmer-assistant/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6

	resultsPerQuery = 12
)

// searchQueries are run in order against the search endpoint. Results are
// concatenated without dedup, so the same video can appear more than once
// when it ranks for several queries.
var searchQueries = []string{
	"PM KISAN agriculture scheme farmers India",
	"government agriculture schemes farmers benefits India",
	"farming schemes crop insurance soil health card India",
}

// Gateway aggregates scheme videos across the fixed query set.
type Gateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func New(apiKey, baseURL string, logger *slog.Logger) *Gateway {
	return &Gateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  http.DefaultClient,
		logger:  logger,
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   struct {
			Medium  thumbnail `json:"medium"`
			Default thumbnail `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// Page returns one page of scheme videos. Query failures are logged and
// skipped; when nothing is left, including the case where every query
// failed, the result is an explicit empty page. This method never fails.
func (g *Gateway) Page(ctx context.Context, page, limit int) model.VideoPage {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	var videos []model.Video
	for _, query := range searchQueries {
		items, err := g.search(ctx, query)
		if err != nil {
			g.logger.Warn("scheme video query failed",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, item := range items {
			if item.ID.VideoID == "" {
				continue
			}
			videos = append(videos, toVideo(item))
		}
	}

	if len(videos) == 0 {
		return model.VideoPage{
			Videos:     []model.Video{},
			Total:      0,
			Page:       page,
			TotalPages: 0,
			HasMore:    false,
		}
	}

	return paginate(videos, page, limit)
}

func (g *Gateway) search(ctx context.Context, query string) ([]searchItem, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("type", "video")
	q.Set("maxResults", strconv.Itoa(resultsPerQuery))
	q.Set("order", "relevance")
	q.Set("regionCode", "IN")
	q.Set("relevanceLanguage", "en")
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("youtube search: decode: %w", err)
	}
	return body.Items, nil
}

func toVideo(item searchItem) model.Video {
	thumb := item.Snippet.Thumbnails.Medium.URL
	if thumb == "" {
		thumb = item.Snippet.Thumbnails.Default.URL
	}
	return model.Video{
		ID:           item.ID.VideoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Thumbnail:    thumb,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
	}
}

func paginate(videos []model.Video, page, limit int) model.VideoPage {
	total := len(videos)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return model.VideoPage{
		Videos:     videos[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    end < total,
	}
}
