// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the preslop service:
// the normalized content record, the ranked result set returned to callers,
// and the configuration structs consumed by every stage.
package types

import "time"

// Source identifies the category of content a provider returns. Scoring
// formulas are per-source; metrics are never compared across sources.
type Source string

const (
	SourceTextDiscussion Source = "text_discussion"
	SourceVideo          Source = "video"
	SourceWebPage        Source = "web_page"
)

// ContentFilter selects which provider categories a search queries.
// FilterText covers text discussions and web pages; FilterVideo covers
// video providers only.
type ContentFilter string

const (
	FilterAll   ContentFilter = "all"
	FilterText  ContentFilter = "text"
	FilterVideo ContentFilter = "video"
)

// MetricUnknown marks an engagement or length metric the provider did not
// report. It is distinct from zero: a post with zero comments has a known
// metric of 0, a web page has comment metrics of MetricUnknown.
const MetricUnknown int64 = -1

// ProviderStatus describes how a provider participated in a search.
type ProviderStatus string

const (
	// ProviderOK means the provider was queried and responded, possibly
	// with zero results.
	ProviderOK ProviderStatus = "ok"

	// ProviderDisabled means the provider was skipped because its
	// credentials are not configured.
	ProviderDisabled ProviderStatus = "disabled"

	// ProviderError means the provider was queried and failed; its
	// results are absent but the search continued.
	ProviderError ProviderStatus = "error"
)

// ContentItem is the normalized record every provider result is converted
// into before scoring and ranking.
type ContentItem struct {
	// Source is the content category this item belongs to.
	Source Source `json:"source" yaml:"source"`

	// Title is the item title. Always non-empty after normalization.
	Title string `json:"title" yaml:"title"`

	// URL is the absolute link to the content.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short excerpt or description. May be empty.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// PublishedAt is the publication time. The zero value means unknown;
	// year or month granularity from the provider is acceptable.
	PublishedAt time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	// EngagementPrimary is the main approval count: upvotes for text
	// discussions, likes for videos. MetricUnknown when not reported.
	EngagementPrimary int64 `json:"engagement_primary" yaml:"engagement_primary"`

	// EngagementSecondary is the discussion count (comments).
	// MetricUnknown when not reported.
	EngagementSecondary int64 `json:"engagement_secondary" yaml:"engagement_secondary"`

	// VolumeMetric is the consumption count (views) for videos.
	// MetricUnknown for sources that have no such metric.
	VolumeMetric int64 `json:"volume_metric" yaml:"volume_metric"`

	// LengthMetric measures content depth: characters for text and web
	// pages, seconds for videos. MetricUnknown when not reported.
	LengthMetric int64 `json:"length_metric" yaml:"length_metric"`

	// QualityScore is the heuristic quality score. Computed once after
	// normalization; never recomputed or mutated afterwards.
	QualityScore float64 `json:"quality_score" yaml:"quality_score"`

	// Badges are short human-readable labels emitted by the scoring
	// components that fired (e.g. "hidden gem", "golden era").
	Badges []string `json:"badges,omitempty" yaml:"badges,omitempty"`

	// RawSourceID is the provider-native identifier, used together with
	// Source as the deduplication key.
	RawSourceID string `json:"raw_source_id" yaml:"raw_source_id"`

	// Origin names where the content lives: a subreddit, a channel
	// title, or a web domain.
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// RankedResultSet is the outcome of one aggregated search: the ranked,
// deduplicated, truncated items plus per-provider participation statuses.
// An empty Items slice with populated Providers is a valid outcome, not
// an error.
type RankedResultSet struct {
	// SearchID uniquely identifies this search invocation.
	SearchID string `json:"search_id" yaml:"search_id"`

	// Query is the topic that was searched.
	Query string `json:"query" yaml:"query"`

	// Filter is the content filter the search ran with.
	Filter ContentFilter `json:"filter" yaml:"filter"`

	// Items are the results in final rank order, highest quality first.
	Items []ContentItem `json:"items" yaml:"items"`

	// Providers maps each selected provider's name to its status.
	Providers map[string]ProviderStatus `json:"providers" yaml:"providers"`

	// TookMs is the wall-clock duration of the search in milliseconds.
	TookMs int64 `json:"took_ms" yaml:"took_ms"`
}
