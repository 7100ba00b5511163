// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/preslop/preslop/internal/httputil"
	"github.com/preslop/preslop/pkg/types"
)

// googleAPIBase is the Custom Search JSON API endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleDefaultDate stands in when a result carries no usable metatag
// date. It sits just before the default cutoff so such pages survive the
// year filter but earn no golden-era bonus.
var googleDefaultDate = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// GoogleProvider queries a Google Custom Search Engine for old web pages.
type GoogleProvider struct {
	Client *http.Client
	cfg    types.SearchConfig
}

// NewGoogle builds the Google adapter from the search configuration.
func NewGoogle(cfg types.SearchConfig) *GoogleProvider {
	return &GoogleProvider{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Name returns the provider identifier.
func (p *GoogleProvider) Name() string { return "google" }

// Kind returns the content category this provider serves.
func (p *GoogleProvider) Kind() types.Source { return types.SourceWebPage }

// Available reports whether both the API key and the engine ID are
// configured.
func (p *GoogleProvider) Available() bool {
	return p.cfg.GoogleAPIKey != "" && p.cfg.GoogleCSEID != ""
}

// Search queries the custom search engine, reads publication dates from
// pagemap metatags, and keeps only pages dated before the cutoff year.
func (p *GoogleProvider) Search(ctx context.Context, query string) ([]RawItem, error) {
	params := url.Values{}
	params.Set("key", p.cfg.GoogleAPIKey)
	params.Set("cx", p.cfg.GoogleCSEID)
	params.Set("q", query)
	params.Set("num", "10")
	// Coarse range bound; the year check below does the real cutoff.
	params.Set("dateRestrict", "d5844")
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("google search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search returned HTTP %d", resp.StatusCode)
	}

	var result cseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing google response: %w", err)
	}

	cutoff := p.cutoffYear()
	var items []RawItem
	for _, it := range result.Items {
		published := metatagDate(it.Pagemap.Metatags)
		if published.Year() >= cutoff {
			continue
		}

		items = append(items, RawItem{
			Source: types.SourceWebPage,
			Web: &RawWebPage{
				Title:          it.Title,
				URL:            it.Link,
				Snippet:        it.Snippet,
				DisplayLink:    it.DisplayLink,
				Published:      published,
				EstimatedChars: int64(len(it.Snippet)) * 10,
			},
		})
	}
	return items, nil
}

func (p *GoogleProvider) cutoffYear() int {
	if p.cfg.CutoffYear > 0 {
		return p.cfg.CutoffYear
	}
	return 2016
}

// metatagDate extracts a publication date from the first metatag block,
// trying the common field names in order. Values are truncated to the
// date part before parsing.
func metatagDate(metatags []map[string]string) time.Time {
	if len(metatags) == 0 {
		return googleDefaultDate
	}
	tags := metatags[0]
	for _, field := range []string{"article:published_time", "datePublished", "publishdate"} {
		v, ok := tags[field]
		if !ok || v == "" {
			continue
		}
		if len(v) > 10 {
			v = v[:10]
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	}
	return googleDefaultDate
}

// Custom Search JSON structures.
type cseResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
		Pagemap     struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}
