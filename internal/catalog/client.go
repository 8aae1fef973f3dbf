// Package catalog fetches candidate videos from the external video catalog
// (YouTube Data API v3 search endpoint). The catalog is a black box with its
// own rate limits and latency; this client only maps its fixed JSON shape
// onto domain.CandidateVideo.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labmedia/related-videos/internal/domain"
	"github.com/labmedia/related-videos/internal/telemetry"
	"github.com/labmedia/related-videos/pkg/httpclient"
	"github.com/labmedia/related-videos/pkg/retry"
)

// Config configures the catalog client.
type Config struct {
	// BaseURL is the catalog API root, e.g. https://www.googleapis.com/youtube/v3.
	BaseURL string
	// APIKey authenticates requests to the catalog.
	APIKey string
	// ChannelID scopes every search to the lab's channel.
	ChannelID string
	// Timeout bounds each catalog request.
	Timeout time.Duration
}

// Client is an HTTP client for the video catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	channelID  string
	retryCfg   retry.Config
}

// NewClient creates a catalog client with a bounded request timeout.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: httpclient.New(httpclient.Config{Timeout: cfg.Timeout}),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		channelID:  cfg.ChannelID,
		retryCfg:   retry.DefaultConfig(),
	}
}

// searchResponse mirrors the catalog's search result shape.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		PublishedAt time.Time `json:"publishedAt"`
		Thumbnails  struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// RecentUploads returns up to limit videos from the configured channel,
// ordered by publish date descending. Transient network failures are
// retried with backoff; all failures wrap domain.ErrUpstream.
func (c *Client) RecentUploads(ctx context.Context, limit int) ([]domain.CandidateVideo, error) {
	endpoint := c.searchURL(limit)

	var videos []domain.CandidateVideo
	err := retry.Do(ctx, c.retryCfg, func() error {
		fetched, fetchErr := c.fetch(ctx, endpoint)
		if fetchErr != nil {
			return fetchErr
		}
		videos = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return videos, nil
}

// searchURL builds the catalog search URL for the channel's latest uploads.
func (c *Client) searchURL(limit int) string {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", c.channelID)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("key", c.apiKey)

	return c.baseURL + "/search?" + params.Encode()
}

// fetch performs one catalog request and maps the response.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]domain.CandidateVideo, error) {
	start := time.Now()
	defer func() {
		telemetry.CatalogRequestDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
		return nil, fmt.Errorf("decode catalog response: %w", decodeErr)
	}

	videos := make([]domain.CandidateVideo, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		// Search results can include playlists and channels; only
		// entries with a video ID are candidates.
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, domain.CandidateVideo{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}

	return videos, nil
}
