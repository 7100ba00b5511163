// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a topic out to the content providers, normalizes
// and scores what comes back, and merges everything into one ranked,
// deduplicated, bounded result set. Provider failures degrade the result
// instead of failing the search.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/preslop/preslop/internal/normalize"
	"github.com/preslop/preslop/internal/provider"
	"github.com/preslop/preslop/internal/scoring"
	"github.com/preslop/preslop/internal/telemetry"
	"github.com/preslop/preslop/internal/topics"
	"github.com/preslop/preslop/pkg/types"
)

// Aggregator owns the provider set and runs searches against it.
type Aggregator struct {
	providers []provider.Provider
	scorer    *scoring.Scorer
	catalog   *topics.Catalog
	cfg       types.SearchConfig
	log       *zap.Logger
	metrics   *telemetry.Metrics
}

// New builds an Aggregator. The logger and metrics may be nil; the
// catalog may be nil if Surprise is never used.
func New(providers []provider.Provider, scorer *scoring.Scorer, catalog *topics.Catalog, cfg types.SearchConfig, log *zap.Logger, metrics *telemetry.Metrics) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		providers: providers,
		scorer:    scorer,
		catalog:   catalog,
		cfg:       cfg,
		log:       log,
		metrics:   metrics,
	}
}

// ParseContentFilter maps a request string onto a ContentFilter. The
// empty string means all content.
func ParseContentFilter(s string) (types.ContentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return types.FilterAll, nil
	case "text":
		return types.FilterText, nil
	case "video":
		return types.FilterVideo, nil
	default:
		return "", fmt.Errorf("unknown content filter %q: use all, text, or video", s)
	}
}

// Search queries every available provider selected by the filter
// concurrently and returns the ranked result set. The only errors are a
// blank query and an unknown filter; provider failures appear as
// statuses, and zero surviving items is a valid outcome.
func (a *Aggregator) Search(ctx context.Context, query string, filter types.ContentFilter) (types.RankedResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.RankedResultSet{}, fmt.Errorf("query is empty: provide a topic to search")
	}
	selected, err := a.selectProviders(filter)
	if err != nil {
		return types.RankedResultSet{}, err
	}

	start := time.Now()
	set := types.RankedResultSet{
		SearchID:  uuid.NewString(),
		Query:     query,
		Filter:    filter,
		Providers: make(map[string]types.ProviderStatus, len(selected)),
	}

	ctx, cancel := context.WithTimeout(ctx, a.overallTimeout())
	defer cancel()

	// Each goroutine writes only its own slot; collecting by slot index
	// keeps the merge order independent of completion order.
	type slot struct {
		items []provider.RawItem
		err   error
	}
	slots := make([]slot, len(selected))

	var wg sync.WaitGroup
	for i, p := range selected {
		if !p.Available() {
			set.Providers[p.Name()] = types.ProviderDisabled
			continue
		}
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			pctx, pcancel := context.WithTimeout(ctx, a.providerTimeout())
			defer pcancel()
			items, err := p.Search(pctx, query)
			slots[i] = slot{items: items, err: err}
		}(i, p)
	}
	wg.Wait()

	items := make([]types.ContentItem, 0, 64)
	for i, p := range selected {
		if set.Providers[p.Name()] == types.ProviderDisabled {
			continue
		}
		if slots[i].err != nil {
			set.Providers[p.Name()] = types.ProviderError
			a.log.Warn("provider failed",
				zap.String("provider", p.Name()),
				zap.String("query", query),
				zap.Error(slots[i].err))
			a.countProvider(p.Name(), "error")
			continue
		}
		set.Providers[p.Name()] = types.ProviderOK
		a.countProvider(p.Name(), "ok")
		items = append(items, a.convert(p.Name(), slots[i].items)...)
	}

	items = dedupe(items)
	rank(items)
	if max := a.maxResults(); len(items) > max {
		items = items[:max]
	}

	set.Items = items
	set.TookMs = time.Since(start).Milliseconds()
	a.observeSearch(filter, time.Since(start), len(items))
	a.log.Info("search complete",
		zap.String("search_id", set.SearchID),
		zap.String("query", query),
		zap.String("filter", string(filter)),
		zap.Int("items", len(items)),
		zap.Int64("took_ms", set.TookMs))
	return set, nil
}

// Surprise searches a randomly picked catalog topic across all content
// types. The chosen topic is the Query of the returned set.
func (a *Aggregator) Surprise(ctx context.Context) (types.RankedResultSet, error) {
	if a.catalog == nil {
		return types.RankedResultSet{}, fmt.Errorf("no topic catalog configured")
	}
	return a.Search(ctx, a.catalog.Pick(), types.FilterAll)
}

// convert normalizes and scores one provider's raw batch. Items that
// fail either step are dropped individually; the batch continues.
func (a *Aggregator) convert(providerName string, raw []provider.RawItem) []types.ContentItem {
	out := make([]types.ContentItem, 0, len(raw))
	for _, r := range raw {
		item, err := normalize.Normalize(r)
		if err != nil {
			a.log.Debug("dropping item that failed normalization",
				zap.String("provider", providerName),
				zap.Error(err))
			continue
		}
		score, badges, err := a.scorer.Score(item)
		if err != nil {
			a.log.Error("dropping item that failed scoring",
				zap.String("provider", providerName),
				zap.Error(err))
			continue
		}
		item.QualityScore = score
		item.Badges = badges
		out = append(out, item)
	}
	return out
}

// selectProviders picks the providers serving the filter, in
// registration order.
func (a *Aggregator) selectProviders(filter types.ContentFilter) ([]provider.Provider, error) {
	switch filter {
	case types.FilterAll:
		return a.providers, nil
	case types.FilterText:
		var out []provider.Provider
		for _, p := range a.providers {
			if p.Kind() == types.SourceTextDiscussion || p.Kind() == types.SourceWebPage {
				out = append(out, p)
			}
		}
		return out, nil
	case types.FilterVideo:
		var out []provider.Provider
		for _, p := range a.providers {
			if p.Kind() == types.SourceVideo {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown content filter %q: use all, text, or video", filter)
	}
}

// dedupe drops repeated (source, raw id) pairs, keeping the first
// occurrence.
func dedupe(items []types.ContentItem) []types.ContentItem {
	seen := make(map[string]bool, len(items))
	out := make([]types.ContentItem, 0, len(items))
	for _, it := range items {
		key := string(it.Source) + ":" + it.RawSourceID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// rank sorts by quality score descending. Ties break by publication
// (earlier first, unknown dates last), then by title, so identical
// inputs always produce identical orderings.
func rank(items []types.ContentItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		az, bz := a.PublishedAt.IsZero(), b.PublishedAt.IsZero()
		if az != bz {
			return bz
		}
		if !az && !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.Before(b.PublishedAt)
		}
		return a.Title < b.Title
	})
}

func (a *Aggregator) maxResults() int {
	if a.cfg.MaxResults > 0 {
		return a.cfg.MaxResults
	}
	return 20
}

func (a *Aggregator) providerTimeout() time.Duration {
	if a.cfg.ProviderTimeout > 0 {
		return a.cfg.ProviderTimeout
	}
	return 10 * time.Second
}

func (a *Aggregator) overallTimeout() time.Duration {
	if a.cfg.OverallTimeout > 0 {
		return a.cfg.OverallTimeout
	}
	return 15 * time.Second
}

func (a *Aggregator) countProvider(name, status string) {
	if a.metrics != nil {
		a.metrics.ProviderCalls.WithLabelValues(name, status).Inc()
	}
}

func (a *Aggregator) observeSearch(filter types.ContentFilter, d time.Duration, items int) {
	if a.metrics != nil {
		a.metrics.SearchesTotal.WithLabelValues(string(filter)).Inc()
		a.metrics.SearchDuration.Observe(d.Seconds())
		a.metrics.ItemsReturned.Observe(float64(items))
	}
}
