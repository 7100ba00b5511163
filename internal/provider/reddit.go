// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/preslop/preslop/internal/httputil"
	"github.com/preslop/preslop/pkg/types"
)

// redditTokenURL and redditAPIBase are declared as vars so tests can
// substitute httptest servers.
var (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIBase  = "https://oauth.reddit.com"
)

// RedditProvider queries the Reddit search API for old discussion threads.
// It authenticates with OAuth2 client credentials and caches the bearer
// token until shortly before expiry.
type RedditProvider struct {
	Client *http.Client
	cfg    types.SearchConfig

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewReddit builds the Reddit adapter from the search configuration.
func NewReddit(cfg types.SearchConfig) *RedditProvider {
	return &RedditProvider{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Name returns the provider identifier.
func (p *RedditProvider) Name() string { return "reddit" }

// Kind returns the content category this provider serves.
func (p *RedditProvider) Kind() types.Source { return types.SourceTextDiscussion }

// Available reports whether OAuth2 application credentials are configured.
func (p *RedditProvider) Available() bool {
	return p.cfg.RedditClientID != "" && p.cfg.RedditClientSecret != ""
}

// Search queries Reddit for discussions matching the topic, keeping only
// posts created before the cutoff year and dropping removed or deleted
// posts.
func (p *RedditProvider) Search(ctx context.Context, query string) ([]RawItem, error) {
	if err := p.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "100")
	params.Set("sort", "relevance")
	params.Set("t", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditAPIBase+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.bearerToken())
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("reddit search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit search returned HTTP %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("parsing reddit response: %w", err)
	}

	cutoff := p.cutoffYear()
	var items []RawItem
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.SelfText == "[removed]" || post.SelfText == "[deleted]" {
			continue
		}

		created := time.Unix(int64(post.CreatedUTC), 0).UTC()
		if created.Year() >= cutoff {
			continue
		}

		items = append(items, RawItem{
			Source: types.SourceTextDiscussion,
			Text: &RawTextPost{
				ID:        post.ID,
				Title:     post.Title,
				URL:       "https://www.reddit.com" + post.Permalink,
				SelfText:  post.SelfText,
				Subreddit: post.Subreddit,
				Upvotes:   post.Score,
				Comments:  post.NumComments,
				Created:   created,
			},
		})
	}
	return items, nil
}

// authenticate obtains a client-credentials token if the cached one has
// expired. Callers may race; the mutex serializes refreshes.
func (p *RedditProvider) authenticate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, redditTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(p.cfg.RedditClientID, p.cfg.RedditClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token endpoint returned no access_token")
	}

	p.token = tok.AccessToken
	// Expire a minute before the upstream expiry.
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return nil
}

func (p *RedditProvider) bearerToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *RedditProvider) cutoffYear() int {
	if p.cfg.CutoffYear > 0 {
		return p.cfg.CutoffYear
	}
	return 2016
}

// Reddit listing JSON structures.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	SelfText    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Score       int64   `json:"score"`
	NumComments int64   `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}
