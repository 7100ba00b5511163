// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preslop/preslop/internal/httputil"
	"github.com/preslop/preslop/pkg/types"
)

// youtubeAPIBase is the YouTube Data API v3 root. Declared as a var so
// tests can substitute an httptest server.
var youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

// YouTubeProvider queries the YouTube Data API for old videos. A search
// call finds candidates; a second videos call fills in statistics and
// durations in batches of up to fifty IDs.
type YouTubeProvider struct {
	Client *http.Client
	cfg    types.SearchConfig
}

// NewYouTube builds the YouTube adapter from the search configuration.
func NewYouTube(cfg types.SearchConfig) *YouTubeProvider {
	return &YouTubeProvider{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Name returns the provider identifier.
func (p *YouTubeProvider) Name() string { return "youtube" }

// Kind returns the content category this provider serves.
func (p *YouTubeProvider) Kind() types.Source { return types.SourceVideo }

// Available reports whether an API key is configured.
func (p *YouTubeProvider) Available() bool { return p.cfg.YouTubeAPIKey != "" }

// Search queries YouTube for videos published before the cutoff year.
func (p *YouTubeProvider) Search(ctx context.Context, query string) ([]RawItem, error) {
	cutoff := p.cutoffYear()

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", "50")
	params.Set("order", "relevance")
	params.Set("publishedBefore", fmt.Sprintf("%d-01-01T00:00:00Z", cutoff))
	params.Set("key", p.cfg.YouTubeAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeAPIBase+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("youtube search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search returned HTTP %d", resp.StatusCode)
	}

	var search ytSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("parsing youtube search response: %w", err)
	}

	var ids []string
	for _, it := range search.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	details, err := p.videoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	var items []RawItem
	for _, id := range ids {
		v, ok := details[id]
		if !ok {
			continue
		}
		if v.Published.Year() >= cutoff {
			continue
		}
		items = append(items, RawItem{Source: types.SourceVideo, Video: v})
	}
	return items, nil
}

// videoDetails fetches snippet, statistics, and contentDetails for the
// given video IDs, batching requests at the API's fifty-ID limit.
func (p *YouTubeProvider) videoDetails(ctx context.Context, ids []string) (map[string]*RawVideo, error) {
	details := make(map[string]*RawVideo, len(ids))

	for start := 0; start < len(ids); start += 50 {
		end := start + 50
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics,contentDetails")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("key", p.cfg.YouTubeAPIKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, youtubeAPIBase+"/videos?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", p.cfg.UserAgent)

		resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
		if err != nil {
			return nil, fmt.Errorf("youtube videos request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("youtube videos returned HTTP %d", resp.StatusCode)
		}

		var batch ytVideosResponse
		err = json.NewDecoder(resp.Body).Decode(&batch)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing youtube videos response: %w", err)
		}

		for _, v := range batch.Items {
			details[v.ID] = &RawVideo{
				ID:              v.ID,
				Title:           v.Snippet.Title,
				URL:             "https://www.youtube.com/watch?v=" + v.ID,
				Description:     v.Snippet.Description,
				ChannelTitle:    v.Snippet.ChannelTitle,
				Published:       v.Snippet.PublishedAt,
				Views:           parseCount(v.Statistics.ViewCount),
				Likes:           parseCount(v.Statistics.LikeCount),
				Comments:        parseCount(v.Statistics.CommentCount),
				DurationSeconds: parseISODuration(v.ContentDetails.Duration),
			}
		}
	}
	return details, nil
}

func (p *YouTubeProvider) cutoffYear() int {
	if p.cfg.CutoffYear > 0 {
		return p.cfg.CutoffYear
	}
	return 2016
}

// parseCount converts the API's string-encoded counters. An absent
// counter (hidden likes, disabled comments) is MetricUnknown, not zero.
func parseCount(s string) int64 {
	if s == "" {
		return types.MetricUnknown
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return types.MetricUnknown
	}
	return n
}

// parseISODuration converts an ISO-8601 duration like "PT1H2M10S" to
// seconds. Returns MetricUnknown for anything it cannot read (e.g. the
// "P0D" placeholder on live streams).
func parseISODuration(s string) int64 {
	rest, ok := strings.CutPrefix(s, "PT")
	if !ok || rest == "" {
		return types.MetricUnknown
	}

	var total, n int64
	var sawUnit bool
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int64(r-'0')
		case r == 'H':
			total += n * 3600
			n, sawUnit = 0, true
		case r == 'M':
			total += n * 60
			n, sawUnit = 0, true
		case r == 'S':
			total += n
			n, sawUnit = 0, true
		default:
			return types.MetricUnknown
		}
	}
	if !sawUnit {
		return types.MetricUnknown
	}
	return total
}

// YouTube Data API JSON structures. Statistics counters arrive as strings.
type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}
